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

package activitystream

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/activityradar/pkg/models"
)

const (
	DefaultRawStreamName    = "ACTIVITY_RAW"
	DefaultRawSubjectPrefix = "governance.activity.raw"
	DefaultPartitions       = 30
	DefaultRawRetention     = 35 * 24 * time.Hour
)

// StreamConfig describes the partitioned raw activity stream. Partition p
// lives on the subject <subject_prefix>.<p>.
type StreamConfig struct {
	Name          string          `json:"name" yaml:"name"`
	SubjectPrefix string          `json:"subject_prefix" yaml:"subject_prefix"`
	Partitions    int             `json:"partitions" yaml:"partitions"`
	Retention     models.Duration `json:"retention" yaml:"retention"`
	Replicas      int             `json:"replicas,omitempty" yaml:"replicas,omitempty"`
}

// DefaultStreamConfig returns the raw stream layout used when nothing is configured.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name:          DefaultRawStreamName,
		SubjectPrefix: DefaultRawSubjectPrefix,
		Partitions:    DefaultPartitions,
		Retention:     models.Duration(DefaultRawRetention),
		Replicas:      1,
	}
}

// ApplyDefaults fills unset fields.
func (c *StreamConfig) ApplyDefaults() {
	d := DefaultStreamConfig()

	if c.Name == "" {
		c.Name = d.Name
	}

	if c.SubjectPrefix == "" {
		c.SubjectPrefix = d.SubjectPrefix
	}

	if c.Partitions == 0 {
		c.Partitions = d.Partitions
	}

	if c.Retention == 0 {
		c.Retention = d.Retention
	}

	if c.Replicas == 0 {
		c.Replicas = d.Replicas
	}
}

// Validate reports every problem with the stream layout.
func (c *StreamConfig) Validate() error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrStreamNameRequired)
	}

	if err := ValidateSubjectPrefix(c.SubjectPrefix); err != nil {
		errs = append(errs, err)
	}

	if c.Partitions <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidPartitionCount, c.Partitions))
	}

	if c.Retention < 0 {
		errs = append(errs, ErrInvalidRetention)
	}

	return errors.Join(errs...)
}

// ValidateSubjectPrefix checks that prefix is a literal NATS subject.
func ValidateSubjectPrefix(prefix string) error {
	if prefix == "" {
		return ErrSubjectPrefixRequired
	}

	for _, token := range strings.Split(prefix, ".") {
		if token == "" || token == "*" || token == ">" || strings.ContainsAny(token, " \t\r\n") {
			return fmt.Errorf("%w: %q", ErrInvalidSubjectPrefix, prefix)
		}
	}

	return nil
}
