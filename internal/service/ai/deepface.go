package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"facescope/internal/config"
	"facescope/internal/logger"
	"facescope/internal/model"
)

// ErrNoFace is returned when the analysis service answers without any face.
var ErrNoFace = errors.New("no face in analysis result")

// DefaultActions are the attribute models requested from DeepFace.
var DefaultActions = []string{"age", "gender", "race", "emotion"}

// DeepFaceAnalyzer calls the DeepFace REST API (POST /analyze).
type DeepFaceAnalyzer struct {
	baseURL          string
	detectorBackend  string
	enforceDetection bool
	actions          []string
	client           *http.Client
	logger           *logger.Logger
}

// NewDeepFaceAnalyzer creates a client for the configured DeepFace service.
func NewDeepFaceAnalyzer(cfg *config.Config, logger *logger.Logger) *DeepFaceAnalyzer {
	return &DeepFaceAnalyzer{
		baseURL:          cfg.DeepFaceURL,
		detectorBackend:  cfg.DeepFaceDetector,
		enforceDetection: cfg.EnforceDetection,
		actions:          DefaultActions,
		client:           &http.Client{Timeout: cfg.AnalyzeTimeout},
		logger:           logger,
	}
}

type analyzeRequest struct {
	Img              string   `json:"img"`
	Actions          []string `json:"actions"`
	DetectorBackend  string   `json:"detector_backend,omitempty"`
	EnforceDetection bool     `json:"enforce_detection"`
}

type analyzeResponse struct {
	Results []faceResult `json:"results"`
	Error   string       `json:"error"`
}

type faceResult struct {
	Age             float64            `json:"age"`
	DominantGender  string             `json:"dominant_gender"`
	Gender          map[string]float64 `json:"gender"`
	DominantRace    string             `json:"dominant_race"`
	Race            map[string]float64 `json:"race"`
	DominantEmotion string             `json:"dominant_emotion"`
	Emotion         map[string]float64 `json:"emotion"`
	Region          struct {
		X int `json:"x"`
		Y int `json:"y"`
		W int `json:"w"`
		H int `json:"h"`
	} `json:"region"`
}

// Analyze sends the image file to DeepFace and returns the first face's attributes.
func (a *DeepFaceAnalyzer) Analyze(ctx context.Context, imagePath string) (*model.Analysis, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	body, err := json.Marshal(analyzeRequest{
		Img:              dataURI(imagePath, data),
		Actions:          a.actions,
		DetectorBackend:  a.detectorBackend,
		EnforceDetection: a.enforceDetection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis response: %w", err)
	}

	var result analyzeResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("analysis service returned %s", resp.Status)
		}
		return nil, fmt.Errorf("malformed analysis response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("analysis service error: %s", result.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis service returned %s", resp.Status)
	}
	if len(result.Results) == 0 {
		return nil, ErrNoFace
	}

	a.logger.Info("DeepFace result for %s: %s", filepath.Base(imagePath), payload)

	face := result.Results[0]
	return &model.Analysis{
		Age:             face.Age,
		DominantGender:  face.DominantGender,
		DominantRace:    face.DominantRace,
		DominantEmotion: face.DominantEmotion,
		Gender:          face.Gender,
		Race:            face.Race,
		Emotion:         face.Emotion,
		Region:          image.Rect(face.Region.X, face.Region.Y, face.Region.X+face.Region.W, face.Region.Y+face.Region.H),
	}, nil
}

func dataURI(path string, data []byte) string {
	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".bmp":
		mime = "image/bmp"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
