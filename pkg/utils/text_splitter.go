package utils

import "fmt"

// ErrInvalidChunking is returned when the requested window geometry can make
// no forward progress (overlap >= size) or is otherwise nonsensical.
var ErrInvalidChunking = fmt.Errorf("invalid chunking parameters")

// SplitText splits a long string into chunks of 'chunkSize' runes with an
// 'overlap' of runes preserved between consecutive chunks to keep context at
// boundaries. Window starts advance by chunkSize-overlap, so the parameters
// must satisfy chunkSize > overlap >= 0; anything else is rejected instead of
// silently looping in place. The final chunk may be shorter than chunkSize.
// This is a purely positional splitter with no awareness of sentences.
func SplitText(text string, chunkSize int, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidChunking, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", ErrInvalidChunking, overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrInvalidChunking, overlap, chunkSize)
	}

	runes := []rune(text)
	totalLen := len(runes)
	if totalLen <= chunkSize {
		return []string{text}, nil
	}

	var chunks []string
	step := chunkSize - overlap

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks, nil
}
