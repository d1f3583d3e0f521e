package pagesnap

import (
	"encoding/base64"
	"encoding/json"
	"os"
)

// Result contains the result of a screenshot capture. Exactly one of
// Base64Data and FilePath is set on success; neither is set on failure.
// Error is set if and only if Success is false.
type Result struct {
	Success    bool   `json:"success"`
	URL        string `json:"url"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	FullPage   bool   `json:"full_page"`
	Format     Format `json:"format"`
	Quality    int    `json:"quality"`
	Size       int    `json:"size"`
	Base64Data string `json:"base64_data,omitempty"`
	FilePath   string `json:"file_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

// newResult echoes the configuration into a fresh result record. Every
// capture, successful or not, starts from this.
func (c *Capturer) newResult(captureURL string) Result {
	return Result{
		URL:      captureURL,
		Width:    c.Options.Width,
		Height:   c.Options.Height,
		FullPage: c.Options.FullPage,
		Format:   c.Options.Format,
		Quality:  c.Options.Quality,
	}
}

// failed converts the result into a terminal failure carrying err. Payload
// fields are cleared so the success invariant holds; Size is left alone
// because a file-write failure still knows the captured byte count.
func (r Result) failed(err error) Result {
	r.Success = false
	r.Error = err.Error()
	r.Base64Data = ""
	r.FilePath = ""
	return r
}

// JSON renders the result as the pretty-printed document written to stdout.
func (r Result) JSON() (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// encodeBase64 returns the standard base64 encoding of the image.
func encodeBase64(image []byte) string {
	return base64.StdEncoding.EncodeToString(image)
}

// writeImageFile writes the raw image bytes to path.
func writeImageFile(path string, image []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(image)
	return err
}
