package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/abhisek/sovbot/internal/commentary"
	"github.com/abhisek/sovbot/internal/diagnosis"
)

func welcomeReply(chatID int64, firstName string, editID int) Reply {
	return Reply{
		ChatID: chatID,
		EditID: editID,
		Text:   welcomeText(firstName),
		HTML:   true,
		Keyboard: [][]Button{row(
			data(btnStart, dataStartDiagnostics),
			data(btnAbout, dataAboutMethod),
			data(btnLegal, dataShowLegal),
		)},
	}
}

func consentReply(chatID int64, editID int) Reply {
	return Reply{
		ChatID: chatID,
		EditID: editID,
		Text:   consentText,
		Keyboard: [][]Button{
			row(data(btnConsent, dataConfirmConsent)),
			row(data(btnLegal, dataShowLegal)),
		},
	}
}

func aboutReply(chatID int64, editID int) Reply {
	return Reply{
		ChatID:   chatID,
		EditID:   editID,
		Text:     aboutText,
		HTML:     true,
		Keyboard: [][]Button{row(data(btnStart, dataStartDiagnostics))},
	}
}

func legalReply(chatID int64, editID int) Reply {
	return Reply{
		ChatID:    chatID,
		EditID:    editID,
		Text:      legalText,
		HTML:      true,
		NoPreview: true,
		Keyboard:  [][]Button{row(data(btnBack, dataBackToStart))},
	}
}

// Render turns an engine outbound into a chat message for chatID.
func Render(chatID int64, out *diagnosis.Outbound) Reply {
	if out.Kind == diagnosis.OutboundResult {
		return resultReply(chatID, out.Result)
	}

	p := out.Prompt
	var b strings.Builder
	fmt.Fprintf(&b, "<b>"+questionHeader+"</b>\n\n", p.Number, p.Total)
	b.WriteString(html.EscapeString(p.Text))

	keyboard := make([][]Button, len(p.Choices))
	for i, c := range p.Choices {
		keyboard[i] = row(data(c.Label, c.Value))
	}
	return Reply{ChatID: chatID, Text: b.String(), HTML: true, Keyboard: keyboard}
}

func resultReply(chatID int64, ranking []diagnosis.Ranked) Reply {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>"+resultHeader+"</b>\n\n", len(ranking))
	for i, r := range ranking {
		fmt.Fprintf(&b, "%d. <b>%s</b> — %d\n", i+1, html.EscapeString(r.Name), r.Score)
	}
	b.WriteString("\n")
	b.WriteString(resultFooter)
	return Reply{
		ChatID:   chatID,
		Text:     b.String(),
		HTML:     true,
		Keyboard: [][]Button{row(data(btnRestart, dataRestart))},
	}
}

// commentaryReply formats LLM commentary as a follow-up message.
func commentaryReply(chatID int64, c *commentary.Commentary) Reply {
	var b strings.Builder
	b.WriteString(html.EscapeString(c.Summary))
	for _, n := range c.Programs {
		fmt.Fprintf(&b, "\n\n<b>%s</b>: %s", html.EscapeString(n.Name), html.EscapeString(n.Influence))
	}
	if c.FirstStep != "" {
		fmt.Fprintf(&b, "\n\n<b>%s</b> %s", commentaryStep, html.EscapeString(c.FirstStep))
	}
	return Reply{ChatID: chatID, Text: b.String(), HTML: true}
}
