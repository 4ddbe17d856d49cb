package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/quizlingo/quizlingo-api/internal/models"
)

// Notifier announces achievement unlocks to the community.
type Notifier interface {
	AnnounceAchievement(user models.User, achievement models.Achievement) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) AnnounceAchievement(user models.User, achievement models.Achievement) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	who := user.Username
	if user.DiscordID != "" {
		who = fmt.Sprintf("%s (<@%s>)", user.Username, user.DiscordID)
	}

	message := fmt.Sprintf("🏆 **Achievement Unlocked**\n**User:** %s\n**Achievement:** %s (%s)\n%s",
		who,
		achievement.Name,
		achievement.Rarity,
		achievement.Description,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}

	return nil
}
