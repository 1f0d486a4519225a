package snapshots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeServiceID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{id: "svc-1", want: "svc-1"},
		{id: "Payments_API", want: "Payments_API"},
		{id: "a.b", want: "x_612e62"},
		{id: "x_y", want: "x_785f79"},
		{id: "", want: "x_"},
		{id: "with space", want: "x_77697468207370616365"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := EscapeServiceID(tt.id)
			assert.Equal(t, tt.want, got)

			back, err := UnescapeServiceID(got)
			require.NoError(t, err)
			assert.Equal(t, tt.id, back)
		})
	}
}

func TestUnescapeServiceIDRejectsBadHex(t *testing.T) {
	_, err := UnescapeServiceID("x_zz")
	require.ErrorIs(t, err, ErrInvalidSubject)
}

func TestSnapshotSubject(t *testing.T) {
	assert.Equal(t, "governance.activity.snapshot.svc-1", SnapshotSubject(DefaultSubjectPrefix, "svc-1"))
	assert.Equal(t, "governance.activity.snapshot.x_612e62", SnapshotSubject(DefaultSubjectPrefix, "a.b"))
}

func TestMessageIDIsDeterministic(t *testing.T) {
	s := snapshot("svc-1", 35, "2024-02-01")

	a := MessageID(&s, []byte(`{"a":1}`))
	b := MessageID(&s, []byte(`{"a":1}`))
	c := MessageID(&s, []byte(`{"a":2}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "svc-1/2024-02-01/")
}

func TestStreamConfigValidate(t *testing.T) {
	var cfg StreamConfig

	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	bad := StreamConfig{SubjectPrefix: "a.*", Retention: -1}
	err := bad.Validate()

	require.ErrorIs(t, err, ErrStreamNameRequired)
	require.ErrorIs(t, err, ErrInvalidSubject)
	require.ErrorIs(t, err, ErrInvalidRetention)
}
