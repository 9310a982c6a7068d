package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/grlcodee/credify.ai/models"
)

// Notifier pushes alerts to an outside channel.
type Notifier interface {
	Notify(ctx context.Context, alert models.Alert) error
}

// embedSender is the discordgo.Session method the notifier uses.
type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts alerts as embeds to one channel.
type DiscordNotifier struct {
	session   embedSender
	channelID string
}

func NewDiscordNotifier(token, channelID string) (*DiscordNotifier, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &DiscordNotifier{session: s, channelID: channelID}, nil
}

func (d *DiscordNotifier) Notify(ctx context.Context, alert models.Alert) error {
	_, err := d.session.ChannelMessageSendEmbed(d.channelID, alertEmbed(alert), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send discord alert %s: %w", alert.ID, err)
	}
	return nil
}

var severityColors = map[models.Severity]int{
	models.SeverityHigh:   0xE74C3C,
	models.SeverityMedium: 0xF39C12,
	models.SeverityLow:    0x3498DB,
}

func alertEmbed(a models.Alert) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Risk", Value: fmt.Sprintf("%d/100", a.RiskLevel), Inline: true},
		{Name: "Type", Value: string(a.Type), Inline: true},
		{Name: "Reason", Value: a.Reason},
	}
	if a.Verification != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Verification",
			Value:  fmt.Sprintf("%d sources, %d contradicting (%s)", a.Verification.SourceCount, a.Verification.ContradictoryCount, a.Verification.Reliability),
			Inline: false,
		})
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🚨 %s alert: %s", a.Severity, truncate(a.Title, 200)),
		URL:         a.Source,
		Description: truncate(a.Claim, 1000),
		Color:       severityColors[a.Severity],
		Fields:      fields,
		Timestamp:   time.UnixMilli(a.Timestamp).Format(time.RFC3339),
	}
}
