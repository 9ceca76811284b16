// internal/app/features/chatbot/views.go
package chatbot

import (
	chatflow "github.com/dalemusser/campushub/internal/app/chatbot"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/domain/models"
)

type messageVM struct {
	Bot       bool
	Text      string
	Resources []resourceVM
}

type resourceVM struct {
	Title string
	Href  string
}

type conversationVM struct {
	Target   string
	Messages []messageVM
	Options  []models.ChatOption
	// Step is the step name, used for the option list's styling.
	Step  string
	Error string
	CSRF  string
}

type pageData struct {
	viewdata.BaseVM
	Chat  conversationVM
	Error string
}

func newConversation(f *chatflow.Flow, csrfToken, errMsg string) conversationVM {
	c := conversationVM{Target: chatTarget, CSRF: csrfToken, Error: errMsg}
	if f == nil {
		return c
	}
	st := f.State()
	c.Step = f.Step().String()
	c.Options = f.Options()
	for _, m := range f.Messages() {
		vm := messageVM{Bot: m.From == models.ChatFromBot, Text: m.Text}
		for _, res := range m.Resources {
			vm.Resources = append(vm.Resources, resourceVM{Title: res.Title, Href: resourceHref(st.ResourceType, res)})
		}
		c.Messages = append(c.Messages, vm)
	}
	return c
}

// resourceHref links a result to the catalog page of the kind named by the
// resource type, or to its own URL when it has no slug.
func resourceHref(resType string, res models.ChatResource) string {
	if k, ok := models.KindByName(resType); ok && res.Slug != "" {
		return "/" + k.Name + "/" + res.Slug
	}
	return res.URL
}
