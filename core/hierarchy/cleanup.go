package hierarchy

// cleanup removes every structure built in this run that covers no token,
// together with its relations.
func (b *builder) cleanup() error {
	for _, st := range b.created {
		if !b.g.Contains(st) {
			continue
		}
		if len(b.g.OverlappedTokens(st)) > 0 {
			continue
		}
		if err := b.g.RemoveNode(st); err != nil {
			return err
		}
		b.report.RemovedStructures++
	}
	return nil
}
