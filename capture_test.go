package pagesnap

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

// Live captures need a Chrome install and network access.
func liveTest(t *testing.T) {
	t.Helper()
	if os.Getenv("PAGESNAP_LIVE_TEST") == "" {
		t.Skip("set PAGESNAP_LIVE_TEST to run live browser captures")
	}
}

func TestCaptureToFile(t *testing.T) {
	liveTest(t)

	options := *DefaultOptions()
	options.OutputPath = filepath.Join(t.TempDir(), "screenshot.png")
	capturer := NewCapturerWithOptions(options)

	result := capturer.Capture("https://example.com")
	if !result.Success {
		t.Fatalf("Capture failed: %s", result.Error)
	}

	if result.FilePath != options.OutputPath {
		t.Errorf("Expected file_path %s, got %s", options.OutputPath, result.FilePath)
	}

	if result.Base64Data != "" {
		t.Error("Did not expect base64 data when writing to file")
	}

	info, err := os.Stat(result.FilePath)
	if err != nil {
		t.Fatalf("Expected screenshot file: %v", err)
	}

	if info.Size() != int64(result.Size) {
		t.Errorf("Expected reported size %d to match file size %d", result.Size, info.Size())
	}
}

func TestCaptureBase64JPEG(t *testing.T) {
	liveTest(t)

	options := *DefaultOptions()
	options.Base64 = true
	options.Format = FormatJPEG
	options.Quality = 50
	options.OutputPath = filepath.Join(t.TempDir(), "screenshot.jpg")
	capturer := NewCapturerWithOptions(options)

	result := capturer.Capture("https://example.com")
	if !result.Success {
		t.Fatalf("Capture failed: %s", result.Error)
	}

	if result.FilePath != "" {
		t.Error("Did not expect file_path in base64 mode")
	}

	if _, err := os.Stat(options.OutputPath); !os.IsNotExist(err) {
		t.Error("Expected no file written in base64 mode")
	}

	decoded, err := base64.StdEncoding.DecodeString(result.Base64Data)
	if err != nil {
		t.Fatalf("base64_data is not valid base64: %v", err)
	}

	if len(decoded) != result.Size {
		t.Errorf("Expected decoded length %d to match reported size %d", result.Size, len(decoded))
	}
}

func TestCaptureUnreachableURL(t *testing.T) {
	liveTest(t)

	options := *DefaultOptions()
	options.Timeout = 10
	options.Delay = 0
	capturer := NewCapturerWithOptions(options)

	result := capturer.Capture("https://nxdomain.invalid")
	if result.Success {
		t.Fatal("Expected capture of unreachable URL to fail")
	}

	if result.Error == "" {
		t.Error("Expected error message on failure")
	}

	if result.Size != 0 {
		t.Errorf("Expected size 0 on failure, got %d", result.Size)
	}

	if result.FilePath != "" || result.Base64Data != "" {
		t.Error("Expected no payload on failure")
	}
}

func TestCaptureWithChromedpEngine(t *testing.T) {
	liveTest(t)

	options := *DefaultOptions()
	options.Engine = EngineChromedp
	options.OutputPath = filepath.Join(t.TempDir(), "screenshot.png")
	capturer := NewCapturerWithOptions(options)

	result := capturer.Capture("https://example.com")
	if !result.Success {
		t.Fatalf("Capture failed: %s", result.Error)
	}

	if result.Size == 0 {
		t.Error("Expected a non-empty screenshot")
	}
}
