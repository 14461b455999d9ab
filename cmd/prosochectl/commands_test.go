package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestParseWorkoutFromFlag(t *testing.T) {
	out := runRoot(t, "", "parse-workout", "--notes", "✓ Sentadilla: 80, 3x10-12")

	var got []parsedExercise
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Sentadilla", got[0].Name)
	assert.Equal(t, 3, got[0].Series)
	assert.Equal(t, 11, got[0].MeanReps)
}

func TestParseWorkoutFromStdin(t *testing.T) {
	out := runRoot(t, "nada que ver aqui", "parse-workout")
	assert.JSONEq(t, `[]`, out)
}

func TestTokenRequiresSubject(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"token"})
	assert.Error(t, root.Execute())
}
