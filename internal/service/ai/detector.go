package ai

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"gocv.io/x/gocv"

	"facescope/internal/config"
	"facescope/internal/logger"
)

const (
	// DetectorDNN selects the OpenCV res10 SSD face model.
	DetectorDNN = "dnn"
	// DetectorHaar selects the frontal face Haar cascade.
	DetectorHaar = "haar"

	// BoxThickness is the outline width of drawn face boxes.
	BoxThickness = 2
)

var (
	// ErrUnknownDetector is returned for an unsupported FACE_DETECTOR value.
	ErrUnknownDetector = errors.New("unknown face detector")

	// BoxColor is the outline colour of drawn face boxes (red on a BGR frame).
	BoxColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}

	// dnnMean is the per-channel mean the res10 SSD model was trained with.
	dnnMean = gocv.NewScalar(104, 177, 123, 0)
)

// FaceDetector returns face bounding boxes for a BGR frame.
type FaceDetector interface {
	Detect(img gocv.Mat) ([]image.Rectangle, error)
	Close() error
}

// NewFaceDetector builds the detector selected in the configuration.
func NewFaceDetector(cfg *config.Config, logger *logger.Logger) (FaceDetector, error) {
	switch cfg.FaceDetector {
	case DetectorDNN:
		detector, err := NewDNNFaceDetector(cfg.FaceModelPath, cfg.FaceConfigPath, cfg.DetectionThreshold, logger)
		if err != nil {
			return nil, err
		}
		return detector, nil
	case DetectorHaar:
		detector, err := NewCascadeFaceDetector(cfg.CascadePath, logger)
		if err != nil {
			return nil, err
		}
		return detector, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDetector, cfg.FaceDetector)
	}
}

// DNNFaceDetector runs the OpenCV SSD face model.
type DNNFaceDetector struct {
	net       gocv.Net
	threshold float32
	logger    *logger.Logger
}

// NewDNNFaceDetector loads the network and sets backend/target preferences.
func NewDNNFaceDetector(modelPath, configPath string, threshold float64, logger *logger.Logger) (*DNNFaceDetector, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", modelPath)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network from %s", modelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set preferable backend or target")
	}

	logger.Info("Face detection network initialized from %s", modelPath)
	return &DNNFaceDetector{
		net:       net,
		threshold: float32(threshold),
		logger:    logger,
	}, nil
}

// Detect runs one forward pass and returns boxes above the confidence threshold.
func (d *DNNFaceDetector) Detect(img gocv.Mat) ([]image.Rectangle, error) {
	if img.Empty() {
		return nil, fmt.Errorf("image is empty")
	}

	blob := gocv.BlobFromImage(img, 1.0, image.Pt(300, 300), dnnMean, false, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	// Each detection row: [batch_id, class_id, confidence, x1, y1, x2, y2]
	rows := output.Reshape(1, output.Total()/7)
	defer rows.Close()

	bounds := image.Rect(0, 0, img.Cols(), img.Rows())
	var boxes []image.Rectangle
	for i := 0; i < rows.Rows(); i++ {
		if rows.GetFloatAt(i, 2) < d.threshold {
			continue
		}
		box := image.Rect(
			int(rows.GetFloatAt(i, 3)*float32(img.Cols())),
			int(rows.GetFloatAt(i, 4)*float32(img.Rows())),
			int(rows.GetFloatAt(i, 5)*float32(img.Cols())),
			int(rows.GetFloatAt(i, 6)*float32(img.Rows())),
		).Intersect(bounds)
		if box.Empty() {
			continue
		}
		boxes = append(boxes, box)
	}
	return boxes, nil
}

// Close releases the network.
func (d *DNNFaceDetector) Close() error {
	return d.net.Close()
}

// CascadeFaceDetector runs a Haar cascade classifier.
type CascadeFaceDetector struct {
	classifier gocv.CascadeClassifier
	logger     *logger.Logger
}

// NewCascadeFaceDetector loads the cascade XML file.
func NewCascadeFaceDetector(cascadePath string, logger *logger.Logger) (*CascadeFaceDetector, error) {
	if _, err := os.Stat(cascadePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("cascade file not found: %s", cascadePath)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("failed to load cascade classifier from %s", cascadePath)
	}

	logger.Info("Face cascade loaded from %s", cascadePath)
	return &CascadeFaceDetector{classifier: classifier, logger: logger}, nil
}

// Detect returns the cascade hits on an equalized grayscale copy of img.
func (d *CascadeFaceDetector) Detect(img gocv.Mat) ([]image.Rectangle, error) {
	if img.Empty() {
		return nil, fmt.Errorf("image is empty")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if err := gocv.CvtColor(img, &gray, gocv.ColorBGRToGray); err != nil {
		return nil, fmt.Errorf("failed to convert image to grayscale: %w", err)
	}
	if err := gocv.EqualizeHist(gray, &gray); err != nil {
		return nil, fmt.Errorf("failed to equalize histogram: %w", err)
	}

	return d.classifier.DetectMultiScale(gray), nil
}

// Close releases the classifier.
func (d *CascadeFaceDetector) Close() error {
	return d.classifier.Close()
}

// FaceLocator detects faces and outlines them on the frame it was given.
type FaceLocator struct {
	detector  FaceDetector
	color     color.RGBA
	thickness int
}

// NewFaceLocator wraps a detector with the fixed box style.
func NewFaceLocator(detector FaceDetector) *FaceLocator {
	return &FaceLocator{
		detector:  detector,
		color:     BoxColor,
		thickness: BoxThickness,
	}
}

// Locate draws an outline around every detected face directly on img and
// returns the boxes. With no faces img is left untouched.
func (l *FaceLocator) Locate(img *gocv.Mat) ([]image.Rectangle, error) {
	boxes, err := l.detector.Detect(*img)
	if err != nil {
		return nil, err
	}

	for _, box := range boxes {
		if err := gocv.Rectangle(img, box, l.color, l.thickness); err != nil {
			return nil, fmt.Errorf("failed to draw rectangle: %w", err)
		}
	}
	return boxes, nil
}

// Close releases the underlying detector.
func (l *FaceLocator) Close() error {
	return l.detector.Close()
}
