package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"gorm.io/gorm"
)

type PushService struct {
	db             *gorm.DB
	sns            *awssns.Client
	fcmPlatformArn string
	log            *slog.Logger
}

func NewPushService(db *gorm.DB, cfg aws.Config, fcmPlatformArn string, log *slog.Logger) *PushService {
	return &PushService{
		db:             db,
		sns:            awssns.NewFromConfig(cfg),
		fcmPlatformArn: fcmPlatformArn,
		log:            log,
	}
}

type RegisterDeviceReq struct {
	Platform string `json:"platform"` // "android" | "ios"
	Token    string `json:"token"`
}

func tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

// iOS devices are reached through FCM as well.
func (p *PushService) platformArn(platform string) (string, error) {
	switch strings.ToLower(platform) {
	case "android", "ios":
		if p.fcmPlatformArn == "" {
			return "", fmt.Errorf("%w: SNS_FCM_ARN not set", ErrUnavailable)
		}
		return p.fcmPlatformArn, nil
	default:
		return "", invalidf("unknown platform %q", platform)
	}
}

// RegisterDevice creates an SNS endpoint for the token and stores it,
// refreshing the row when the same token is registered again.
func (p *PushService) RegisterDevice(ctx context.Context, userID uint, req RegisterDeviceReq) (*models.UserDevice, error) {
	if strings.TrimSpace(req.Token) == "" {
		return nil, invalidf("token is required")
	}
	appArn, err := p.platformArn(req.Platform)
	if err != nil {
		return nil, err
	}

	out, err := p.sns.CreatePlatformEndpoint(ctx, &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(appArn),
		Token:                  aws.String(req.Token),
	})
	if err != nil {
		return nil, fmt.Errorf("create platform endpoint: %w", err)
	}

	dev := models.UserDevice{
		UserID:    userID,
		TokenHash: tokenHash(req.Token),
	}
	err = p.db.WithContext(ctx).
		Where("user_id = ? AND token_hash = ?", userID, dev.TokenHash).
		Assign(map[string]any{
			"platform":     strings.ToLower(req.Platform),
			"endpoint_arn": aws.ToString(out.EndpointArn),
			"enabled":      true,
			"updated_at":   time.Now(),
		}).
		FirstOrCreate(&dev).Error
	if err != nil {
		return nil, err
	}
	return &dev, nil
}

// SetEnabled toggles push delivery for every device of the user.
func (p *PushService) SetEnabled(ctx context.Context, userID uint, enabled bool) error {
	return p.db.WithContext(ctx).
		Model(&models.UserDevice{}).
		Where("user_id = ?", userID).
		Update("enabled", enabled).Error
}

// gcmMessage builds the SNS "json" message structure for FCM endpoints.
func gcmMessage(title, body string, data map[string]string) (string, error) {
	gcm, err := json.Marshal(map[string]any{
		"notification": map[string]string{"title": title, "body": body},
		"data":         data,
	})
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(map[string]string{
		"default": body,
		"GCM":     string(gcm),
	})
	return string(raw), err
}

// PushToUser is best effort: failures are logged, never returned.
func (p *PushService) PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string) {
	var devices []models.UserDevice
	if err := p.db.WithContext(ctx).
		Where("user_id = ? AND enabled = ?", userID, true).
		Find(&devices).Error; err != nil {
		p.log.Error("load push devices", "user_id", userID, "error", err)
		return
	}
	if len(devices) == 0 {
		return
	}

	msg, err := gcmMessage(title, body, data)
	if err != nil {
		p.log.Error("encode push message", "error", err)
		return
	}
	for _, d := range devices {
		_, err := p.sns.Publish(ctx, &awssns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(msg),
			TargetArn:        aws.String(d.EndpointARN),
		})
		if err != nil {
			p.log.Warn("push failed", "user_id", userID, "device_id", d.ID, "error", err)
		}
	}
}
