package pubsub

import (
	"context"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/angelmondragon/rentalfleet-backend/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	cases := []struct {
		name    string
		project string
		topic   string
		want    string
	}{
		{name: "short id", project: "fleet", topic: "rf-domain-events", want: "projects/fleet/topics/rf-domain-events"},
		{name: "full resource", project: "other", topic: "projects/fleet/topics/x", want: "projects/fleet/topics/x"},
		{name: "blank topic", project: "fleet", topic: "  ", want: ""},
		{name: "blank project", project: "", topic: "x", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := topicResourceName(tc.project, tc.topic); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNewClientRequiresProject(t *testing.T) {
	if _, err := NewClient(context.Background(), config.GCPConfig{}, config.PubSubConfig{DomainTopic: "t"}, nil); err != errProjectIDRequired {
		t.Fatalf("expected project id error, got %v", err)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.Publisher("x") != nil {
		t.Fatalf("expected nil publisher")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Ping(context.Background()); err != errNotInitialized {
		t.Fatalf("expected not initialized, got %v", err)
	}
	if err := c.EnsureTopics(context.Background(), "x"); err != errNotInitialized {
		t.Fatalf("expected not initialized, got %v", err)
	}
}

func TestApplySettingsKeepsDefaultsForZeroValues(t *testing.T) {
	settings := gcppubsub.DefaultPublishSettings
	applySettings(&settings, config.PubSubConfig{})
	if settings.DelayThreshold != gcppubsub.DefaultPublishSettings.DelayThreshold {
		t.Fatalf("delay threshold changed: %v", settings.DelayThreshold)
	}

	applySettings(&settings, config.PubSubConfig{
		DelayThreshold: 5 * time.Millisecond,
		CountThreshold: 20,
		PublishTimeout: time.Second,
	})
	if settings.DelayThreshold != 5*time.Millisecond || settings.CountThreshold != 20 || settings.Timeout != time.Second {
		t.Fatalf("settings not applied: %+v", settings)
	}
}
