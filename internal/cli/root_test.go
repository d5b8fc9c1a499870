package cli

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"traincal/internal/config"
	"traincal/internal/store"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "traincal", cmd.Use)

	for _, name := range []string{"sync", "plan", "show", "serve"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, DefaultConfigPath, configFlag.DefValue)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	planCmd, _, err := cmd.Find([]string{"plan"})
	require.NoError(t, err)
	assert.NotNil(t, planCmd.Flags().Lookup("calendar-url"))
	assert.NotNil(t, planCmd.Flags().Lookup("json"))
}

// workspace writes a config whose paths all live in a temp dir, plus an
// inbox holding one ticket email.
func workspace(t *testing.T) (configPath string, cfg *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg = config.DefaultConfig()
	cfg.InboxDir = filepath.Join(dir, "inbox")
	cfg.CalendarPath = filepath.Join(dir, "trains.ics")
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.DBPath = filepath.Join(dir, "traincal.db")
	cfg.OCRCommand = []string{"cat", "{}"}
	configPath = filepath.Join(dir, "config.yaml")
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, data, 0o600))

	html, err := os.ReadFile(filepath.Join("..", "extract", "testdata", "email_round_trip.html"))
	require.NoError(t, err)
	ticket, err := os.ReadFile(filepath.Join("..", "extract", "testdata", "ticket_round_trip.txt"))
	require.NoError(t, err)

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: Amtrak <etickets@amtrak.com>\r\n")
	fmt.Fprintf(&b, "Subject: eTicket and Receipt for Your 01/11/2019 Trip\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Add(-24*time.Hour).Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <cli-test@amtrak.com>\r\n")
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=\"b\"\r\n\r\n")
	fmt.Fprintf(&b, "--b\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", html)
	fmt.Fprintf(&b, "--b\r\nContent-Type: application/pdf\r\nContent-Disposition: attachment; filename=\"eTicket.pdf\"\r\n")
	fmt.Fprintf(&b, "Content-Transfer-Encoding: base64\r\n\r\n%s\r\n", base64.StdEncoding.EncodeToString(ticket))
	fmt.Fprintf(&b, "--b--\r\n")

	require.NoError(t, os.MkdirAll(cfg.InboxDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InboxDir, "ticket.eml"), b.Bytes(), 0o600))
	return configPath, cfg
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestShow(t *testing.T) {
	configPath, _ := workspace(t)

	out, err := execute(t, "--config", configPath, "show")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "1D4433", got[0]["reservationNumber"])
	assert.Equal(t, "NEW YORK (PENN STATION), NY -> WASHINGTON, DC (round trip)", got[0]["description"])
}

func TestPlanAndSync(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	configPath, cfg := workspace(t)

	out, err := execute(t, "--config", configPath, "plan")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1D4433: 2 to create, 0 to delete"), out)
	assert.Contains(t, out, "+ Amtrak Train 173: NYP -> WAS, Fri, Jan 11 2019, 3:35 PM EST")
	assert.NoFileExists(t, cfg.CalendarPath)

	out, err = execute(t, "--config", configPath, "sync")
	require.NoError(t, err)
	var run store.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, 2, run.Created)
	assert.Empty(t, run.Errors)

	data, err := os.ReadFile(cfg.CalendarPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Amtrak Train 158: WAS -> NYP")
}
