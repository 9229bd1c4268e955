package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMessageUsesTelegramHTMLSubset(t *testing.T) {
	got := formatMessage(
		`Reminder: "Ship <v2>" is due today`,
		`Hi Ada,<br>Your task "<b>Ship &lt;v2&gt;</b>" is due today.<br>— Task Manager`,
	)

	// The Bot API rejects unsupported tags; only the mail-body <br> needs
	// translating, the <b> emphasis is fine as-is.
	assert.NotContains(t, got, "<br>")
	assert.Contains(t, got, "\nYour task")
	assert.Contains(t, got, `"<b>Ship &lt;v2&gt;</b>"`)

	// The plain-text subject is escaped before it is wrapped in <b>.
	assert.True(t, strings.HasPrefix(got, "<b>Reminder: &#34;Ship &lt;v2&gt;&#34; is due today</b>\n\n"), got)
}

func TestFormatMessageHandlesBrVariants(t *testing.T) {
	got := formatMessage("s", "a<br>b<br/>c<br />d")
	assert.Contains(t, got, "a\nb\nc\nd")
}
