package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServiceType(t *testing.T) {
	for in, want := range map[string]ServiceType{
		"chef":        ServiceTypeChef,
		" Bartender ": ServiceTypeBartender,
		"SERVER":      ServiceTypeServer,
	} {
		got, err := ParseServiceType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseServiceType("sommelier")
	assert.Error(t, err)
}

func TestParseApplicationStatus(t *testing.T) {
	got, err := ParseApplicationStatus(" Interview_Scheduled")
	require.NoError(t, err)
	assert.Equal(t, ApplicationStatusInterviewScheduled, got)

	_, err = ParseApplicationStatus("archived")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}
