package optsigslack

import (
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

type Handler struct {
	helpHandler  *HelpHandler
	sigHandler   *SigHandler
	priceHandler *PriceHandler
}

func NewHandler() *Handler {
	return &Handler{
		helpHandler:  NewHelpHandler(),
		sigHandler:   NewSigHandler(),
		priceHandler: NewPriceHandler(),
	}
}

func (h *Handler) Handle(evt *socketmode.Event, client *socketmode.Client) error {
	data := evt.Data.(slack.SlashCommand)
	switch data.Command {
	case "/help":
		if err := h.helpHandler.HandleCommand(evt, client); err != nil {
			return err
		}
	case "/sig":
		if err := h.sigHandler.HandleCommand(evt, client); err != nil {
			return err
		}
	case "/price":
		if err := h.priceHandler.HandleCommand(evt, client); err != nil {
			return err
		}
	}

	client.Ack(*evt.Request)
	return nil
}
