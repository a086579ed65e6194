package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/policy/internal/ui/output"
)

func TestColorProfile_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile())
	assert.Equal(t, termenv.Ascii, output.ColorProfileANSI())
}

func TestColorProfileANSI(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.ANSI, output.ColorProfileANSI())
}

func TestNewWithProfile_PlainText(t *testing.T) {
	buf := &bytes.Buffer{}
	out := output.NewWithProfile(buf, output.ColorProfileNone)

	styled := out.String("hello").Foreground(termenv.ANSIRed)
	_, err := out.WriteString(styled.String())
	assert.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
}
