package edgar

import (
	"fmt"
	"strings"
)

const cikWidth = 10

// NormalizeCIK left-pads a filer identifier with zeros to the 10-character
// width EDGAR URLs require. The input may carry leading zeros already.
func NormalizeCIK(cik string) (string, error) {
	cik = strings.TrimSpace(cik)
	if cik == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrInvalidCIK)
	}
	if len(cik) > cikWidth {
		return "", fmt.Errorf("%w: %q exceeds %d digits", ErrInvalidCIK, cik, cikWidth)
	}
	for _, r := range cik {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q contains non-digit characters", ErrInvalidCIK, cik)
		}
	}
	return strings.Repeat("0", cikWidth-len(cik)) + cik, nil
}
