package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/your-org/historyshorts/internal/generate"
)

// StdinApprover shows each generated text on the terminal and asks for a
// y/n decision before the event is committed.
func StdinApprover() generate.Approver {
	reader := bufio.NewReader(os.Stdin)
	return func(text string, index, total int) bool {
		fmt.Printf("Text: %s\n", text)
		fmt.Printf("Approve? (y/n) [%d/%d]: ", index, total)

		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(line), "y")
	}
}
