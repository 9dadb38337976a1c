package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_RejectsBadArguments(t *testing.T) {
	type testCase struct {
		name    string
		args    []string
		wantErr string
	}

	tests := []testCase{
		{
			name:    "IngestBadPeriod",
			args:    []string{"ingest", "--period", "11/03/2024", "week11.xlsx"},
			wantErr: "invalid --period",
		},
		{
			name:    "IngestBadSourceDate",
			args:    []string{"ingest", "--source-date", "yesterday", "week11.xlsx"},
			wantErr: "invalid --source-date",
		},
		{
			name:    "SnapshotsBadProjectID",
			args:    []string{"snapshots", "not-a-uuid"},
			wantErr: "invalid project id",
		},
		{
			name:    "SnapshotsBadPeriod",
			args:    []string{"snapshots", "--period", "march", "6f1c2a4e-8a55-4f7e-9d43-0d7c8f6f3b21"},
			wantErr: "invalid --period",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs(tt.args)
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))

			err := cmd.Execute()
			require.Error(t, err)

			var usage usageError
			assert.ErrorAs(t, err, &usage)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRootCmd_RequiresFileArgument(t *testing.T) {
	for _, sub := range []string{"ingest", "diagnose"} {
		t.Run(sub, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs([]string{sub})
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))

			assert.Error(t, cmd.Execute())
		})
	}
}
