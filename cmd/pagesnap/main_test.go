package main

import (
	"os"
	"strings"
	"testing"

	"github.com/pagesnap/pagesnap"
)

// The flag package registers globally, so parseFlags runs exactly once in
// this test binary.
func TestParseFlags(t *testing.T) {
	cli := newCLI()
	args := []string{"-u", "https://example.com", "-f", "jpeg", "-q", "50", "-cw", "800", "-ch", "600", "-b64", "-cf", "-debug"}
	os.Args = append([]string{"pagesnap"}, args...)
	cli.parseFlags()

	if cli.TargetURL != "https://example.com" {
		t.Errorf("Expected TargetURL to be 'https://example.com', got %s", cli.TargetURL)
	}

	if cli.FormatName != "jpeg" {
		t.Errorf("Expected format name 'jpeg', got %s", cli.FormatName)
	}

	if cli.Options.Quality != 50 {
		t.Errorf("Expected quality 50, got %d", cli.Options.Quality)
	}

	if cli.Options.Width != 800 || cli.Options.Height != 600 {
		t.Errorf("Expected viewport 800x600, got %dx%d", cli.Options.Width, cli.Options.Height)
	}

	if !cli.Options.Base64 || !cli.Options.FullPage {
		t.Error("Expected base64 and full-page flags to be set")
	}

	if !cli.Debug {
		t.Error("Expected debug flag to be set")
	}

	if err := cli.applyFlags(); err != nil {
		t.Fatalf("applyFlags failed: %v", err)
	}

	if cli.Options.Format != pagesnap.FormatJPEG {
		t.Errorf("Expected parsed format jpeg, got %s", cli.Options.Format)
	}
}

func TestApplyFlagsValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*cli)
		wantErr string
	}{
		{
			name:    "bad format",
			mutate:  func(c *cli) { c.FormatName = "gif" },
			wantErr: "unknown format",
		},
		{
			name:    "quality too high",
			mutate:  func(c *cli) { c.Options.Quality = 101 },
			wantErr: "invalid quality",
		},
		{
			name:    "quality too low",
			mutate:  func(c *cli) { c.Options.Quality = 0 },
			wantErr: "invalid quality",
		},
		{
			name:    "zero width",
			mutate:  func(c *cli) { c.Options.Width = 0 },
			wantErr: "invalid viewport",
		},
		{
			name:    "bad engine",
			mutate:  func(c *cli) { c.Options.Engine = "firefox" },
			wantErr: "unknown engine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCLI()
			c.FormatName = string(c.Options.Format)
			tt.mutate(c)

			err := c.applyFlags()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestApplyFlagsDebugEnablesVerboseLogging(t *testing.T) {
	c := newCLI()
	c.FormatName = "png"
	c.Debug = true

	if err := c.applyFlags(); err != nil {
		t.Fatalf("applyFlags failed: %v", err)
	}

	if !c.Options.Verbose {
		t.Error("Expected debug mode to imply verbose logging")
	}
}

func TestApplyFlagsInvertsToggles(t *testing.T) {
	c := newCLI()
	c.FormatName = "png"
	c.RespectCertErr = true
	c.UseHTTP2 = true
	c.NoHeadless = true

	if err := c.applyFlags(); err != nil {
		t.Fatalf("applyFlags failed: %v", err)
	}

	if c.Options.IgnoreCertificateErrors {
		t.Error("Expected certificate errors to be respected")
	}
	if c.Options.DisableHTTP2 {
		t.Error("Expected HTTP2 to stay enabled")
	}
	if c.Options.Headless {
		t.Error("Expected headless mode to be off")
	}
}

func TestCaptureURLDefaultsToHTTPS(t *testing.T) {
	c := newCLI()
	c.TargetURL = "example.com"

	if got := c.captureURL(); got != "https://example.com" {
		t.Errorf("Expected https://example.com, got %s", got)
	}

	c.TargetURL = "http://example.com/page"
	if got := c.captureURL(); got != "http://example.com/page" {
		t.Errorf("Expected URL with scheme to pass through, got %s", got)
	}
}

func TestCaptureURLStripsDefaultPort(t *testing.T) {
	c := newCLI()
	c.TargetURL = "https://example.com:443"

	if got := c.captureURL(); got != "https://example.com" {
		t.Errorf("Expected default port stripped, got %s", got)
	}

	c.TargetURL = "http://example.com:8080/page"
	if got := c.captureURL(); got != "http://example.com:8080/page" {
		t.Errorf("Expected non-default port kept, got %s", got)
	}
}
