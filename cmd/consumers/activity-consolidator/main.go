/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/carverauto/activityradar/pkg/config"
	activityconsolidator "github.com/carverauto/activityradar/pkg/consumers/activity-consolidator"
	"github.com/carverauto/activityradar/pkg/lifecycle"
	"github.com/carverauto/activityradar/pkg/logger"
	"github.com/carverauto/activityradar/pkg/version"
)

const serviceName = "activity-consolidator"

var errPostgresURLFileEmpty = errors.New("postgres url file is empty")

func main() {
	configPath := flag.String("config", "/etc/activityradar/activity-consolidator.yaml", "Path to config file")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetFullVersion())
		return
	}

	ctx := context.Background()

	var cfg activityconsolidator.ConsolidatorConfig

	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := applyPostgresURLFile(&cfg); err != nil {
		log.Fatalf("Activity consolidator config validation failed: %v", err)
	}

	loggerConfig := cfg.Logging
	if loggerConfig == nil {
		loggerConfig = logger.DefaultConfig()
	}

	serviceLogger, err := lifecycle.CreateComponentLogger(ctx, serviceName, loggerConfig)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	svc, err := activityconsolidator.NewService(&cfg, version.GetVersion(), serviceLogger)
	if err != nil {
		log.Fatalf("Failed to initialize activity consolidator: %v", err)
	}

	opts := &lifecycle.ServerOptions{
		ServiceName: serviceName,
		Service:     svc,
		Logger:      serviceLogger,
	}

	if err := lifecycle.RunServer(ctx, opts); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// applyPostgresURLFile reads the Postgres connection string from a mounted
// secret when the config leaves it empty.
func applyPostgresURLFile(cfg *activityconsolidator.ConsolidatorConfig) error {
	if cfg.Postgres == nil || cfg.Postgres.URL != "" {
		return nil
	}

	path := os.Getenv("POSTGRES_URL_FILE")
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read postgres url file: %w", err)
	}

	url := strings.TrimSpace(string(data))
	if url == "" {
		return fmt.Errorf("%w: %s", errPostgresURLFileEmpty, path)
	}

	cfg.Postgres.URL = url

	return nil
}
