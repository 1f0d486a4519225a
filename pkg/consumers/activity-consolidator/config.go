package activityconsolidator

import (
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/activityradar/pkg/activitystream"
	"github.com/carverauto/activityradar/pkg/consolidation"
	"github.com/carverauto/activityradar/pkg/logger"
	"github.com/carverauto/activityradar/pkg/models"
	"github.com/carverauto/activityradar/pkg/scheduler"
	"github.com/carverauto/activityradar/pkg/snapshots"
)

const (
	defaultSchedule     = "0 2 * * *"
	defaultListenAddr   = ":8090"
	defaultEventsStream = "ACTIVITY_EVENTS"
	defaultEventsSubj   = "governance.activity.events.run"
	defaultEventsMaxAge = 7 * 24 * time.Hour
)

var (
	ErrMissingNATSURL     = errors.New("nats_url is required")
	ErrMissingListenAddr  = errors.New("listen_addr is required")
	ErrInvalidSecurity    = errors.New("security mode must be none or mtls")
	ErrInvalidEventStream = errors.New("events stream requires name and subject")
)

// EventsConfig controls publication of run summaries.
type EventsConfig struct {
	Enabled   bool            `json:"enabled" yaml:"enabled"`
	Stream    string          `json:"stream" yaml:"stream"`
	Subject   string          `json:"subject" yaml:"subject"`
	Retention models.Duration `json:"retention" yaml:"retention"`
}

// ConsolidatorConfig is the configuration of the activity consolidator service.
type ConsolidatorConfig struct {
	consolidation.Config `yaml:",inline"`

	NATSURL  string                 `json:"nats_url" yaml:"nats_url"`
	Domain   string                 `json:"domain,omitempty" yaml:"domain,omitempty"`
	Security *models.SecurityConfig `json:"security,omitempty" yaml:"security,omitempty"`

	RawStream      activitystream.StreamConfig `json:"raw_stream" yaml:"raw_stream"`
	SnapshotStream snapshots.StreamConfig      `json:"snapshot_stream" yaml:"snapshot_stream"`
	Events         EventsConfig                `json:"events" yaml:"events"`

	Postgres  *models.PostgresConfig `json:"postgres,omitempty" yaml:"postgres,omitempty"`
	BadgerDir string                 `json:"badger_dir,omitempty" yaml:"badger_dir,omitempty"`

	KnownServices     []string `json:"known_services,omitempty" yaml:"known_services,omitempty"`
	KnownServicesFile string   `json:"known_services_file,omitempty" yaml:"known_services_file,omitempty"`

	Schedule   string         `json:"schedule" yaml:"schedule"`
	RunOnStart bool           `json:"run_on_start" yaml:"run_on_start"`
	ListenAddr string         `json:"listen_addr" yaml:"listen_addr"`
	Logging    *logger.Config `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// ApplyDefaults fills every unset field.
func (c *ConsolidatorConfig) ApplyDefaults() {
	c.Config.ApplyDefaults()
	c.RawStream.ApplyDefaults()
	c.SnapshotStream.ApplyDefaults()

	if c.Events.Stream == "" {
		c.Events.Stream = defaultEventsStream
	}

	if c.Events.Subject == "" {
		c.Events.Subject = defaultEventsSubj
	}

	if c.Events.Retention == 0 {
		c.Events.Retention = models.Duration(defaultEventsMaxAge)
	}

	if c.Schedule == "" {
		c.Schedule = defaultSchedule
	}

	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
}

// Validate checks the configuration for required fields.
func (c *ConsolidatorConfig) Validate() error {
	var errs []error

	if err := c.Config.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.NATSURL == "" {
		errs = append(errs, ErrMissingNATSURL)
	}

	if c.ListenAddr == "" {
		errs = append(errs, ErrMissingListenAddr)
	}

	if c.Security != nil && c.Security.Mode != "" &&
		c.Security.Mode != models.SecurityModeNone && c.Security.Mode != models.SecurityModeMTLS {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidSecurity, c.Security.Mode))
	}

	if err := c.RawStream.Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := c.SnapshotStream.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Events.Enabled && (c.Events.Stream == "" || c.Events.Subject == "") {
		errs = append(errs, ErrInvalidEventStream)
	}

	if err := scheduler.ValidateSpec(c.Schedule); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
