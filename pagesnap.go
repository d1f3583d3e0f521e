// Package pagesnap captures screenshots of web pages using a headless
// Chrome instance and reports the outcome as a single result record.
package pagesnap

import (
	"fmt"
	"strings"

	"github.com/root4loot/goutils/log"
)

const Version = "0.1.0"

// Engines supported by the capturer. Rod drives the browser over its own
// DevTools client; Chromedp is kept as an alternative backend.
const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// Format is the image format of the capture.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat parses a user-provided format name. "jpg" is accepted as an
// alias for "jpeg".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected png or jpeg)", s)
	}
}

// Options contains options for the capturer
type Options struct {
	OutputPath              string // Path to write the image to (ignored in base64 mode)
	Width                   int    // Width of the viewport
	Height                  int    // Height of the viewport
	FullPage                bool   // Capture beyond the visible viewport
	Quality                 int    // JPEG quality (1-100), ignored for PNG
	Format                  Format // Image format (png or jpeg)
	Base64                  bool   // Emit base64 data instead of writing a file
	Timeout                 int    // Deadline for the whole capture (seconds)
	Delay                   int    // Settle delay before capturing (seconds)
	UserAgent               string // User agent to use
	Headless                bool   // Run in headless mode
	NoSandbox               bool   // Disable the Chrome sandbox
	IgnoreCertificateErrors bool   // Ignore certificate errors
	DisableHTTP2            bool   // Disable HTTP2
	Engine                  string // Browser backend (rod or chromedp)
	Label                   bool   // Stamp the page origin under the image
	LabelFont               string // TTF file for the label (empty = builtin face)
	Silence                 bool   // Silence output
	Verbose                 bool   // Verbose logging
}

// Capturer takes a single screenshot per Capture call.
type Capturer struct {
	Options *Options
}

func init() {
	log.Init("pagesnap")
}

// DefaultOptions returns default options
func DefaultOptions() *Options {
	return &Options{
		OutputPath:              "screenshot.png",
		Width:                   1920,
		Height:                  1080,
		FullPage:                false,
		Quality:                 90,
		Format:                  FormatPNG,
		Base64:                  false,
		Timeout:                 30,
		Delay:                   2,
		Headless:                true,
		NoSandbox:               true,
		IgnoreCertificateErrors: true,
		DisableHTTP2:            true,
		Engine:                  EngineRod,
	}
}

// NewCapturer returns a new capturer with default options
func NewCapturer() *Capturer {
	return &Capturer{Options: DefaultOptions()}
}

// NewCapturerWithOptions returns a new capturer with the specified options
func NewCapturerWithOptions(options Options) *Capturer {
	SetLogLevel(&options)
	return &Capturer{Options: &options}
}

// SetLogLevel sets the log level based on the options
func SetLogLevel(options *Options) {
	if options.Silence {
		log.SetLevel(log.FatalLevel)
	} else if options.Verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
