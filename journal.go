package pipegraph

// Journal is the external collaborator that logs geometry by the
// pipeline it was drawn with. The core never constructs or owns a
// Journal; it only calls Flush when a mutating setter is about to
// change a pipeline the journal still holds geometry against (spec
// §6's journal interface).
type Journal interface {
	Flush()
}

func flushJournal(p *Pipeline) {
	if p.ctx == nil || p.ctx.journal == nil {
		return
	}
	p.ctx.journal.Flush()
}
