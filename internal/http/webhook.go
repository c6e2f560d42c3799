package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dcamacho/rbm-gateway/internal/metrics"
	"github.com/dcamacho/rbm-gateway/internal/model"
	"github.com/dcamacho/rbm-gateway/internal/repository"
	"github.com/dcamacho/rbm-gateway/internal/router"
	"github.com/dcamacho/rbm-gateway/internal/signature"
	"github.com/dcamacho/rbm-gateway/internal/util"
	echo "github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Publisher fans accepted events out to downstream consumers (Kafka).
// Optional; failures never affect the acknowledgment.
type Publisher interface {
	Publish(ctx context.Context, classification string, payload []byte) error
}

type webhookDeps struct {
	verifier *signature.Verifier
	router   *router.Router
	sigHdr   string
	debug    bool

	publisher Publisher                   // optional
	audit     repository.EventsRepository // optional
	log       *zap.Logger
}

// webhookHandler is the inbound pipeline: raw-body capture -> signature
// verification -> JSON parse -> route -> fixed-shape ack. Verification and
// parse failures are terminal; anything after that is acknowledged.
func webhookHandler(d webhookDeps) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		body, err := io.ReadAll(req.Body)
		if err != nil {
			d.log.Error("read request body failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		if d.debug {
			d.log.Debug("webhook request",
				zap.Any("headers", req.Header),
				zap.Int("payload_bytes", len(body)),
			)
		}

		claimed := req.Header.Get(d.sigHdr)
		if !d.verifier.Verify(body, claimed) {
			metrics.SignatureFailuresTotal.Inc()
			d.log.Warn("signature verification failed",
				zap.Bool("signature_present", claimed != ""),
				zap.Int("payload_bytes", len(body)),
			)
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid signature"})
		}

		if len(body) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No data received"})
		}

		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			d.log.Warn("invalid JSON body", zap.Error(err))
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		}
		if payload == nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No data received"})
		}

		class, ack := d.router.Route(req.Context(), payload)

		outcome := "accepted"
		if ack.Status != http.StatusOK {
			outcome = "rejected"
		}
		metrics.WebhookEventsTotal.WithLabelValues(class.String(), outcome).Inc()

		if ack.Status == http.StatusOK {
			d.record(c, class, payload, body)
		}

		return c.JSON(ack.Status, ack.Body)
	}
}

// record performs the post-ack side effects: Kafka fan-out and ClickHouse
// audit. Both are best effort.
func (d webhookDeps) record(c echo.Context, class router.Classification, payload map[string]any, body []byte) {
	ctx := c.Request().Context()

	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, class.String(), body); err != nil {
			d.log.Error("kafka publish failed", zap.String("classification", class.String()), zap.Error(err))
		}
	}

	if d.audit != nil {
		ev := model.InboundEvent{
			ID:             util.New(),
			Classification: class.String(),
			SenderPhone:    auditSender(payload),
			Payload:        string(body),
			ReceivedAt:     time.Now().UTC(),
		}
		if err := d.audit.Insert(ctx, ev); err != nil {
			d.log.Error("audit insert failed", zap.String("id", ev.ID), zap.Error(err))
		}
	}
}

func auditSender(p map[string]any) string {
	if info, ok := p["senderInformation"].(map[string]any); ok {
		if s, ok := info["senderPhoneNumber"].(string); ok && s != "" {
			return s
		}
	}
	s, _ := p["senderPhoneNumber"].(string)
	return s
}
