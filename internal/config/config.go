package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	CameraDevice    string
	FrameWidth      int           // Szerokość klatki po przeskalowaniu (proporcje zachowane)
	RefreshInterval time.Duration // Opóźnienie między kolejnymi odświeżeniami podglądu
	WindowTitle     string

	FaceDetector       string // "dnn" albo "haar"
	FaceModelPath      string
	FaceConfigPath     string
	CascadePath        string
	DetectionThreshold float64

	DeepFaceURL       string
	DeepFaceDetector  string
	EnforceDetection  bool
	AnalyzeTimeout    time.Duration
	AnalysisWorkers   int
	AnalysisQueueSize int

	CacheDirectory string
	DBPath         string
	LogDirectory   string
	LogLevel       string

	ViewerAddr  string // Pusty = serwer podglądu wyłączony
	ViewerToken string
}

// Load reads an optional .env file and builds the configuration from the environment.
// A missing env file is not an error; a malformed one is.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return &Config{
		CameraDevice:    getEnv("CAMERA_DEVICE", "0"),
		FrameWidth:      getEnvAsInt("FRAME_WIDTH", 800),
		RefreshInterval: getEnvAsDuration("REFRESH_INTERVAL", 10*time.Millisecond),
		WindowTitle:     getEnv("WINDOW_TITLE", "Face Detection App"),

		FaceDetector:       strings.ToLower(getEnv("FACE_DETECTOR", "dnn")),
		FaceModelPath:      getEnv("FACE_MODEL_PATH", filepath.Join(".", "models", "res10_300x300_ssd_iter_140000.caffemodel")),
		FaceConfigPath:     getEnv("FACE_CONFIG_PATH", filepath.Join(".", "models", "deploy.prototxt")),
		CascadePath:        getEnv("CASCADE_PATH", "haarcascade_frontalface_default.xml"),
		DetectionThreshold: getEnvAsFloat("DETECTION_THRESHOLD", 0.5),

		DeepFaceURL:       strings.TrimRight(getEnv("DEEPFACE_URL", "http://localhost:5005"), "/"),
		DeepFaceDetector:  getEnv("DEEPFACE_DETECTOR_BACKEND", "mtcnn"),
		EnforceDetection:  getEnvAsBool("ENFORCE_DETECTION", true),
		AnalyzeTimeout:    getEnvAsDuration("ANALYZE_TIMEOUT", 60*time.Second),
		AnalysisWorkers:   getEnvAsInt("ANALYSIS_WORKERS", 1),
		AnalysisQueueSize: getEnvAsInt("ANALYSIS_QUEUE", 8),

		CacheDirectory: resolveNextToExecutable(getEnv("CACHE_DIR", "cache")),
		DBPath:         getEnv("DB_PATH", filepath.Join(".", "data", "facescope.db")),
		LogDirectory:   getEnv("LOG_DIR", filepath.Join(".", "logs")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		ViewerAddr:  getEnv("VIEWER_ADDR", ""),
		ViewerToken: getEnv("VIEWER_TOKEN", ""),
	}, nil
}

// resolveNextToExecutable anchors a relative directory at the executable's location.
func resolveNextToExecutable(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return dir
	}
	return filepath.Join(filepath.Dir(exe), dir)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
