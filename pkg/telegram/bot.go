package telegram

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/autoinspect/inspection-service/internal/entity"
)

type Bot struct {
	token   string
	baseURL string
	chatID  string
}

func NewBot(token, chatID string) *Bot {
	return &Bot{
		token:   token,
		baseURL: "https://api.telegram.org/bot" + token,
		chatID:  chatID,
	}
}

func (b *Bot) SendMessage(text string) error {
	endpoint := b.baseURL + "/sendMessage"

	params := url.Values{}
	params.Add("chat_id", b.chatID)
	params.Add("text", text)

	resp, err := http.PostForm(endpoint, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: %s", resp.Status)
	}

	return nil
}

// NotifyAnalysisComplete posts the report summary to the ops chat.
func (b *Bot) NotifyAnalysisComplete(report *entity.DamageReport) error {
	text := fmt.Sprintf(
		"Inspection %s analyzed: %d issue(s), estimated cost %.2f",
		report.InspectionID, len(report.Issues), report.Total(),
	)
	return b.SendMessage(text)
}

// NotifyAnalysisFailed reports a failed analysis run.
func (b *Bot) NotifyAnalysisFailed(inspectionID string, cause error) error {
	return b.SendMessage(fmt.Sprintf("Inspection %s analysis failed: %v", inspectionID, cause))
}
