package core

// Downmix folds channels into one by the arithmetic mean at each index.
//
// Channels may differ in length; the result has the length of the longest
// channel and missing samples count as silence in the mean.
func Downmix(channels [][]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}
	if len(channels) == 1 {
		return append([]float64(nil), channels[0]...)
	}

	n := 0
	for _, ch := range channels {
		if len(ch) > n {
			n = len(ch)
		}
	}

	out := make([]float64, n)
	for _, ch := range channels {
		for i, v := range ch {
			out[i] += v
		}
	}

	inv := 1 / float64(len(channels))
	for i := range out {
		out[i] *= inv
	}
	return out
}

