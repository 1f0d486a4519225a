package snapshots

import (
	"errors"
	"strings"
	"time"

	"github.com/carverauto/activityradar/pkg/models"
)

const (
	DefaultStreamName    = "ACTIVITY_SNAPSHOT"
	DefaultSubjectPrefix = "governance.activity.snapshot"
	DefaultRetention     = 90 * 24 * time.Hour
)

// StreamConfig describes the snapshot stream. Each service keeps only its
// latest snapshot under <subject_prefix>.<escaped service id>.
type StreamConfig struct {
	Name          string          `json:"name" yaml:"name"`
	SubjectPrefix string          `json:"subject_prefix" yaml:"subject_prefix"`
	Retention     models.Duration `json:"retention" yaml:"retention"`
	Replicas      int             `json:"replicas,omitempty" yaml:"replicas,omitempty"`
}

func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name:          DefaultStreamName,
		SubjectPrefix: DefaultSubjectPrefix,
		Retention:     models.Duration(DefaultRetention),
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

	if c.Retention == 0 {
		c.Retention = d.Retention
	}

	if c.Replicas == 0 {
		c.Replicas = d.Replicas
	}
}

func (c *StreamConfig) Validate() error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrStreamNameRequired)
	}

	if c.SubjectPrefix == "" || strings.ContainsAny(c.SubjectPrefix, "*> ") ||
		strings.HasPrefix(c.SubjectPrefix, ".") || strings.HasSuffix(c.SubjectPrefix, ".") {
		errs = append(errs, ErrInvalidSubject)
	}

	if c.Retention < 0 {
		errs = append(errs, ErrInvalidRetention)
	}

	return errors.Join(errs...)
}
