package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fridgectl/internal/config"
	"fridgectl/internal/expiration"
)

const userAgent = "fridgectl/0.1.0"

// Service defines the push-notification surface exposed to commands.
type Service interface {
	NotifyReconciliationComplete(ctx context.Context, added, removed, updated int) error
	NotifyPendingConfirmations(ctx context.Context, count int) error
	NotifyExpirations(ctx context.Context, report expiration.Report) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a push service backed by ntfy when a topic is
// configured, otherwise a noop implementation.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		enabled:  cfg.Notifications,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	enabled  config.Notifications
}

func (n *ntfyService) NotifyReconciliationComplete(ctx context.Context, added, removed, updated int) error {
	if !n.enabled.Reconciliation {
		return nil
	}
	data := payload{
		title:   "Fridge - Inventory Updated",
		message: fmt.Sprintf("✅ Reconciliation complete: %d added, %d removed, %d updated", added, removed, updated),
		tags:    []string{"fridge", "reconcile", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPendingConfirmations(ctx context.Context, count int) error {
	if !n.enabled.Pending {
		return nil
	}
	data := payload{
		title:   "Fridge - Confirmation Needed",
		message: fmt.Sprintf("🔄 %d quantity change(s) need your confirmation", count),
		tags:    []string{"fridge", "reconcile", "pending"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyExpirations(ctx context.Context, report expiration.Report) error {
	if !n.enabled.Expirations || report.Empty() {
		return nil
	}

	var builder strings.Builder
	if len(report.Expired) > 0 {
		fmt.Fprintf(&builder, "Expired: %s\n", joinItemNames(report.Expired))
	}
	if len(report.WarningThreeDays) > 0 {
		fmt.Fprintf(&builder, "Within 3 days: %s\n", joinItemNames(report.WarningThreeDays))
	}
	if len(report.WarningWeek) > 0 {
		fmt.Fprintf(&builder, "Within a week: %s\n", joinItemNames(report.WarningWeek))
	}

	priority := "default"
	if len(report.Expired) > 0 {
		priority = "high"
	}
	data := payload{
		title:    "Fridge - Expiration Alert",
		message:  strings.TrimRight(builder.String(), "\n"),
		tags:     []string{"fridge", "expiration", "alert"},
		priority: priority,
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.enabled.Errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Fridge - Error",
		message:  builder.String(),
		tags:     []string{"fridge", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Fridge - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"fridge", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func joinItemNames(items []expiration.Entry) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return strings.Join(names, ", ")
}

type noopService struct{}

func (noopService) NotifyReconciliationComplete(context.Context, int, int, int) error { return nil }
func (noopService) NotifyPendingConfirmations(context.Context, int) error             { return nil }
func (noopService) NotifyExpirations(context.Context, expiration.Report) error        { return nil }
func (noopService) NotifyError(context.Context, error, string) error                  { return nil }
func (noopService) TestNotification(context.Context) error                            { return nil }

