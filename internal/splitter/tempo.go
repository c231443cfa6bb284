package splitter

// BPM returns the tempo of the first tempo meta event, scanning tracks in order.
// Later tempo changes are ignored.
func (s *Song) BPM() (float64, error) {
	for _, t := range s.Tracks {
		for _, ev := range t {
			tempo, ok := ev.(Tempo)
			if !ok || tempo.BPM <= 0 {
				continue
			}
			return tempo.BPM, nil
		}
	}
	return 0, ErrMissingTempo
}
