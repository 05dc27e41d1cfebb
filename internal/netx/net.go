// Package netx contains small networking helpers shared by server components.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// UploadToS3PresignedURL PUTs the payload to a presigned S3 URL.
func UploadToS3PresignedURL(url string, payload []byte) error {
	req, err := http.NewRequest("PUT", url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
