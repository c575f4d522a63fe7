package services

import (
	"context"
	"fmt"

	"github.com/FlowDomain/NutriLog/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const (
	maxPhotoLabels     = 5
	minLabelConfidence = 75
)

type RekognitionService struct {
	client *rekognition.Client
}

func NewRekognitionService(cfg aws.Config) *RekognitionService {
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}
}

// RecognizeLabels returns the top labels for a base64 data URI image, most
// confident first.
func (r *RekognitionService) RecognizeLabels(ctx context.Context, dataURI string) ([]string, error) {
	_, data, err := utils.ParseDataURI(dataURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(maxPhotoLabels),
		MinConfidence: aws.Float32(minLabelConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	labels := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		labels = append(labels, aws.ToString(l.Name))
	}
	return labels, nil
}
