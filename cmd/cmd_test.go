package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"droscher.com/WineCellar/pkg/model"
)

func TestExitCode(t *testing.T) {
	cases := map[error]int{
		nil:                           0,
		model.ErrAuthenticationFailed: 3,
		model.ErrUnauthorized:         4,
		model.ErrValidation:           5,
		model.ErrCapacityExceeded:     6,
		model.ErrNotEmpty:             7,
		model.ErrNotFound:             8,
		model.ErrStorage:              9,
		errors.New("anything else"):   1,
	}

	for err, code := range cases {
		if err != nil {
			err = fmt.Errorf("%w: wrapped", err)
		}

		assert.Equal(t, code, ExitCode(err))
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	parser, err := kong.New(&CLI, kong.Name("WineCellar"), kong.Exit(func(code int) {
		t.Fatalf("kong exited with %d", code)
	}))
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer

	err = ctx.Run(&Context{Debug: CLI.Debug, ConfigFile: CLI.ConfigFile, Stdout: &out})

	return out.String(), err
}

func TestCLI_BottleLifecycle(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")

	t.Setenv("WINECELLAR_AUTH_SECRETKEY", "test-secret")
	t.Setenv("WINECELLAR_DB_PATH", filepath.Join(dir, "cellar.db"))
	t.Setenv("WINECELLAR_STORAGE_DIRECTORY", filepath.Join(dir, "labels"))
	t.Setenv("WINECELLAR_TOKEN", "")

	wine := []string{"--producer", "Château Talbot", "--name", "Saint-Julien", "--type", "Red", "--year", "2015"}
	session := []string{"--token-file", tokenFile}

	_, err := runCLI(t, "migrate", "--config-file", filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)

	_, err = runCLI(t, "register", "Doe", "Jane", "--secret", "s3cret")
	require.NoError(t, err)

	_, err = runCLI(t, "create-cellar", "Home", "--token-file", tokenFile)
	assert.Equal(t, 3, ExitCode(err))

	out, err := runCLI(t, "login", "Doe", "Jane", "--secret", "s3cret", "--token-file", tokenFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Jane Doe")

	_, err = runCLI(t, append([]string{"create-cellar", "Home"}, session...)...)
	require.NoError(t, err)

	_, err = runCLI(t, append([]string{"add-shelf", "1", "Rack A", "--capacity", "2"}, session...)...)
	require.NoError(t, err)

	add := append(append([]string{"add-bottles", "1", "--shelf-id", "1", "--quantity", "2"}, wine...), session...)
	_, err = runCLI(t, add...)
	require.NoError(t, err)

	add = append(append([]string{"add-bottles", "1", "--shelf-id", "1"}, wine...), session...)
	_, err = runCLI(t, add...)
	assert.Equal(t, 6, ExitCode(err))

	archive := append(append([]string{"archive-bottles", "1", "--rating", "4.5", "--comment", "Cedar"}, wine...), session...)
	out, err = runCLI(t, archive...)
	require.NoError(t, err)
	assert.Contains(t, out, "Archived 1 of 1 bottles")

	out, err = runCLI(t, append([]string{"review-summary"}, wine...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Average rating: 4.50")
	assert.Contains(t, out, "Reviews: 1")

	out, err = runCLI(t, "list-inventory", "1", "--sort", "quantity", "--order", "desc")
	require.NoError(t, err)
	assert.Contains(t, out, "Rack A")

	out, err = runCLI(t, "show-cellar", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cellar 1: Home (owner Jane Doe)")

	_, err = runCLI(t, append([]string{"remove-shelf", "1", "1"}, session...)...)
	assert.Equal(t, 7, ExitCode(err))

	remove := append(append([]string{"remove-bottles", "1", "--quantity", "5"}, wine...), session...)
	out, err = runCLI(t, remove...)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 of 5 bottles")

	_, err = runCLI(t, append([]string{"remove-bottles", "1", "--descriptor-id", "1", "--producer", "X"}, session...)...)
	assert.Equal(t, 5, ExitCode(err))
}

func TestCLI_ShowLabel(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	labelFile := filepath.Join(dir, "front.png")
	fetched := filepath.Join(dir, "fetched.png")

	t.Setenv("WINECELLAR_AUTH_SECRETKEY", "test-secret")
	t.Setenv("WINECELLAR_DB_PATH", filepath.Join(dir, "cellar.db"))
	t.Setenv("WINECELLAR_STORAGE_DIRECTORY", filepath.Join(dir, "labels"))
	t.Setenv("WINECELLAR_TOKEN", "")

	require.NoError(t, os.WriteFile(labelFile, []byte("png-bytes"), 0o600))

	session := []string{"--token-file", tokenFile}

	_, err := runCLI(t, "migrate")
	require.NoError(t, err)
	_, err = runCLI(t, "register", "Doe", "Jane", "--secret", "s3cret")
	require.NoError(t, err)
	_, err = runCLI(t, "login", "Doe", "Jane", "--secret", "s3cret", "--token-file", tokenFile)
	require.NoError(t, err)
	_, err = runCLI(t, append([]string{"create-cellar", "Home"}, session...)...)
	require.NoError(t, err)
	_, err = runCLI(t, append([]string{"add-shelf", "1", "Floor"}, session...)...)
	require.NoError(t, err)

	add := []string{"add-bottles", "1", "--shelf-id", "1", "--label", labelFile,
		"--producer", "Domaine Huet", "--name", "Le Mont Sec", "--type", "White", "--year", "2019"}
	_, err = runCLI(t, append(add, session...)...)
	require.NoError(t, err)

	out, err := runCLI(t, "list-inventory", "1")
	require.NoError(t, err)

	reference := regexp.MustCompile(`front_[0-9a-f]{32}\.png`).FindString(out)
	require.NotEmpty(t, reference, out)

	out, err = runCLI(t, "show-label", reference, "--output", fetched)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved label to")

	data, err := os.ReadFile(fetched)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = runCLI(t, "show-label", "missing_00000000000000000000000000000000.png")
	assert.Equal(t, 8, ExitCode(err))
}
