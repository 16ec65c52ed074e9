package services

import (
	"fmt"
	"strings"

	"generate-lecture-service/application/ports/inbound"
	"generate-lecture-service/domain"
)

type scriptAssembler struct{}

func NewScriptAssembler() inbound.ScriptAssemblerPort {
	return &scriptAssembler{}
}

// Assemble renders the script as plain text: header, then one `[MM:SS] Title`
// line per segment followed by its body. Pure formatting; byte-identical for
// identical input.
func (a *scriptAssembler) Assemble(script domain.Script) string {
	var builder strings.Builder

	builder.WriteString(script.Header.Title)
	builder.WriteString("\n")

	if len(script.Header.LearningObjectives) > 0 {
		builder.WriteString("\nLearning objectives:\n")
		for _, objective := range script.Header.LearningObjectives {
			builder.WriteString("- ")
			builder.WriteString(objective)
			builder.WriteString("\n")
		}
	}

	for _, segment := range script.Segments {
		builder.WriteString("\n")
		builder.WriteString(formatTimestamp(segment.DisplayStart))
		builder.WriteString(" ")
		builder.WriteString(segment.Title)
		builder.WriteString("\n")
		builder.WriteString(segment.Body)
		builder.WriteString("\n")
	}

	return builder.String()
}

// formatTimestamp renders whole seconds as [MM:SS]; the minute field grows
// past 59 for scripts longer than an hour.
func formatTimestamp(seconds int) string {
	return fmt.Sprintf("[%02d:%02d]", seconds/60, seconds%60)
}
