package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/example/nairacardigans/internal/config"
)

const mediaFolder = "naira-cardigans"

// MediaService uploads product images to the external media host
// (Cloudinary's HTTP upload API) and deletes them when products or images
// are removed. Image bytes never touch local disk.
type MediaService struct {
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	client    *http.Client
}

// NewMediaService constructs a MediaService from config.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{
		cloudName: cfg.CloudinaryCloudName,
		apiKey:    cfg.CloudinaryAPIKey,
		apiSecret: cfg.CloudinaryAPISecret,
		baseURL:   strings.TrimRight(cfg.CloudinaryBaseURL, "/"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// UploadedImage is the remote URL plus the storage handle needed to delete it.
type UploadedImage struct {
	URL      string
	PublicID string
}

type mediaUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends one base64-encoded image to the media host and returns its
// remote URL and public ID.
func (s *MediaService) Upload(ctx context.Context, encoded string) (*UploadedImage, error) {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Set("file", encoded)
	form.Set("api_key", s.apiKey)
	form.Set("timestamp", timestamp)
	form.Set("folder", mediaFolder)
	form.Set("signature", s.sign(map[string]string{
		"folder":    mediaFolder,
		"timestamp": timestamp,
	}))

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", s.baseURL, s.cloudName)
	parsed, err := s.post(ctx, endpoint, form)
	if err != nil {
		return nil, err
	}

	return &UploadedImage{URL: parsed.SecureURL, PublicID: parsed.PublicID}, nil
}

// UploadAll uploads a batch of base64-encoded images sequentially.
func (s *MediaService) UploadAll(ctx context.Context, encoded []string) ([]UploadedImage, error) {
	images := make([]UploadedImage, 0, len(encoded))
	for _, e := range encoded {
		img, err := s.Upload(ctx, e)
		if err != nil {
			return nil, err
		}
		images = append(images, *img)
	}
	return images, nil
}

// Destroy removes a remote asset by public ID. Failures are logged, not
// propagated: a dangling remote image must not block catalog mutations.
func (s *MediaService) Destroy(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("api_key", s.apiKey)
	form.Set("timestamp", timestamp)
	form.Set("signature", s.sign(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}))

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/destroy", s.baseURL, s.cloudName)
	if _, err := s.post(ctx, endpoint, form); err != nil {
		log.Printf("[Media] Failed to delete %s: %v", publicID, err)
	}
}

func (s *MediaService) post(ctx context.Context, endpoint string, form url.Values) (*mediaUploadResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media host request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var parsed mediaUploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("media host response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := parsed.Error.Message
		if msg == "" {
			msg = string(body)
		}
		return nil, fmt.Errorf("media host status %d: %s", resp.StatusCode, msg)
	}

	return &parsed, nil
}

// sign builds the API signature: params sorted by key, joined with &, with
// the API secret appended, hashed with SHA-1.
func (s *MediaService) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "&") + s.apiSecret))
	return hex.EncodeToString(sum[:])
}
