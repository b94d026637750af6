package maf

import "strings"

// blockState is the running state between lines of one alignment block.
type blockState struct {
	inBlock    bool
	alignLen   int // aligned text length of the block's first "s" line, -1 if none yet
	prevTokens []string
}

func (s *blockState) reset() {
	s.inBlock = false
	s.alignLen = -1
}

// machine enforces line ordering within blocks and dispatches each line to
// its field validator. A machine is good for one file.
type machine struct {
	opts    Options
	sources *SourceRegistry
	state   blockState

	blocks    int
	sequences int
}

func newMachine(opts Options) *machine {
	return &machine{
		opts:    opts,
		sources: NewSourceRegistry(),
		state:   blockState{alignLen: -1},
	}
}

// feed consumes one whitespace-trimmed line following the header.
func (m *machine) feed(line string) error {
	tokens := strings.Fields(line)
	err := m.dispatch(Classify(line), tokens)
	m.state.prevTokens = tokens
	return err
}

func (m *machine) dispatch(cat Category, tokens []string) error {
	switch cat {
	case CategoryComment, CategoryBlank:
		m.state.reset()
		return nil
	case CategoryBlockStart:
		m.state.inBlock = true
		m.state.alignLen = -1
		m.blocks++
		return validateBlockStart(tokens)
	case CategorySequence:
		if err := m.requireBlock(); err != nil {
			return err
		}
		return m.sequence(tokens)
	case CategoryInfo:
		if err := m.requireBlock(); err != nil {
			return err
		}
		_, err := ParseInfoLine(tokens, m.state.prevTokens)
		return err
	case CategoryOther:
		return m.requireBlock()
	default:
		// Unknown line types are tolerated.
		return nil
	}
}

func (m *machine) requireBlock() error {
	if !m.state.inBlock {
		return violation(KindMissingAlignmentBlockLine, "line is not preceded by an alignment (\"a\") line")
	}
	return nil
}

func (m *machine) sequence(tokens []string) error {
	seq, err := ParseSequenceLine(tokens)
	if err != nil {
		return err
	}
	key, err := sourceKey(seq.Src, m.opts.CheckChromNames)
	if err != nil {
		return err
	}

	if m.state.alignLen < 0 {
		m.state.alignLen = len(seq.Text)
	} else if m.state.alignLen != len(seq.Text) {
		return violation(KindAlignmentLength,
			"alignment field of length %d differs from the other sequences in the block (%d)",
			len(seq.Text), m.state.alignLen)
	}

	if declared, ok := m.sources.Check(key, seq.SrcSize); !ok {
		return violation(KindSourceLength,
			"different source lengths for %s (%d, previously %d)", key, seq.SrcSize, declared)
	}

	m.sequences++
	return nil
}
