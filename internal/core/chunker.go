package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Document is a raw corpus text plus free-form metadata. Documents only live
// through the build phase; after chunking they are discarded.
type Document struct {
	Source string
	Text   string
	Tags   map[string]string
}

// Chunk is a bounded segment of a Document, the unit of embedding and
// retrieval. Index is assigned monotonically across the whole split.
type Chunk struct {
	Index  int
	Source string
	Text   string
}

// defaultSeparators is the priority ladder tried when looking for a cut
// point: paragraph break, line break, sentence punctuation, comma, space,
// and finally a hard character cut.
var defaultSeparators = []string{"\n\n", "\n", ".", "!", "?", ",", " ", ""}

// Splitter cuts document text into chunks of at most maxSize characters,
// carrying up to overlap trailing characters into the next chunk so context
// survives the split boundary.
type Splitter struct {
	maxSize    int
	overlap    int
	separators []string
}

func NewSplitter(maxSize, overlap int) (*Splitter, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidArgument, maxSize)
	}
	if overlap < 0 || overlap >= maxSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be non-negative and smaller than chunk size %d", ErrInvalidArgument, overlap, maxSize)
	}
	return &Splitter{
		maxSize:    maxSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}, nil
}

// SplitDocuments splits every document and returns the combined chunks with
// monotonically increasing indexes. Documents with only whitespace are
// skipped; if nothing usable remains the split fails with ErrEmptyInput.
func (s *Splitter) SplitDocuments(docs []Document) ([]Chunk, error) {
	nonEmpty := 0
	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return nil, fmt.Errorf("%w: document set is empty", ErrEmptyInput)
	}

	var chunks []Chunk
	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			continue
		}
		for _, piece := range s.splitText(doc.Text, s.separators) {
			chunks = append(chunks, Chunk{
				Index:  len(chunks),
				Source: doc.Source,
				Text:   piece,
			})
		}
	}
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	return chunks, nil
}

// splitText recursively splits text on the highest-priority separator it
// contains, then merges the resulting pieces back into chunks of at most
// maxSize. Pieces still too large descend to the next separator; the empty
// separator splits into single characters, so the recursion always bottoms
// out at a hard cut.
func (s *Splitter) splitText(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var deeper []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			deeper = separators[i+1:]
			break
		}
	}

	var final []string
	var small []string
	for _, piece := range strings.Split(text, sep) {
		if utf8.RuneCountInString(piece) < s.maxSize {
			small = append(small, piece)
			continue
		}
		if len(small) > 0 {
			final = append(final, s.mergePieces(small, sep)...)
			small = nil
		}
		if len(deeper) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitText(piece, deeper)...)
		}
	}
	if len(small) > 0 {
		final = append(final, s.mergePieces(small, sep)...)
	}
	return final
}

// mergePieces packs consecutive pieces into chunks of at most maxSize
// characters. When a chunk closes, the trailing window of at most overlap
// characters stays behind to seed the next chunk.
func (s *Splitter) mergePieces(pieces []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)
	var chunks []string
	var window []string
	total := 0

	joinedLen := func(extra int) int {
		n := total + extra
		if len(window) > 0 {
			n += sepLen
		}
		return n
	}

	for _, piece := range pieces {
		pieceLen := utf8.RuneCountInString(piece)
		if joinedLen(pieceLen) > s.maxSize && len(window) > 0 {
			if chunk := strings.TrimSpace(strings.Join(window, sep)); chunk != "" {
				chunks = append(chunks, chunk)
			}
			// Shrink the window down to the overlap budget, and further if
			// the incoming piece still would not fit.
			for total > s.overlap || (joinedLen(pieceLen) > s.maxSize && total > 0) {
				total -= utf8.RuneCountInString(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}
		if len(window) > 0 {
			total += sepLen
		}
		window = append(window, piece)
		total += pieceLen
	}
	if chunk := strings.TrimSpace(strings.Join(window, sep)); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}
