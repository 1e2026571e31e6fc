//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cwbudde/spectral-eq/dsp/band"
	"github.com/cwbudde/spectral-eq/dsp/stft"
	"github.com/cwbudde/spectral-eq/internal/webdemo"
)

var (
	engine *webdemo.Engine
	funcs  []js.Func
)

func main() {
	api := js.Global().Get("Object").New()
	api.Set("init", export(func(args []js.Value) any {
		sr := 44100.0
		if len(args) > 0 {
			sr = args[0].Float()
		}
		e, err := webdemo.NewEngine(sr)
		if err != nil {
			return err.Error()
		}
		engine = e
		return js.Null()
	}))

	api.Set("loadSignal", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		if err := engine.LoadSignal(floats(args[0]), args[1].Float()); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("loadChannels", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		arr := args[0]
		channels := make([][]float64, arr.Length())
		for i := range channels {
			channels[i] = floats(arr.Index(i))
		}
		if err := engine.LoadChannels(channels, args[1].Float()); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("setBands", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		arr := args[0]
		bands := make([]band.Band, arr.Length())
		for i := range bands {
			item := arr.Index(i)
			bands[i] = band.Band{
				MinHz: item.Get("minHz").Float(),
				MaxHz: item.Get("maxHz").Float(),
				Gain:  item.Get("gain").Float(),
			}
		}
		if err := engine.SetBands(bands); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("setSpectrum", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		p := args[0]
		err := engine.SetSpectrum(webdemo.SpectrumParams{
			FrameLength: intOr(p.Get("frameLength"), 0),
			HopLength:   intOr(p.Get("hopLength"), 0),
			FloorDB:     floatOr(p.Get("floorDB"), 0),
		})
		if err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("process", export(func(args []js.Value) any {
		if engine == nil {
			return js.Global().Get("Float32Array").New(0)
		}
		out, err := engine.Process()
		if err != nil {
			return err.Error()
		}
		return float32Array(out)
	}))

	api.Set("spectrograms", export(func(args []js.Value) any {
		if engine == nil {
			return js.Null()
		}
		in, out, err := engine.Spectrograms()
		if err != nil {
			return err.Error()
		}
		res := js.Global().Get("Object").New()
		res.Set("input", spectrogram(in))
		if out != nil {
			res.Set("output", spectrogram(out))
		} else {
			res.Set("output", js.Null())
		}
		return res
	}))

	api.Set("levels", export(func(args []js.Value) any {
		if engine == nil {
			return js.Null()
		}
		l := engine.Levels()
		res := js.Global().Get("Object").New()
		res.Set("inputRMSdB", l.Input.RMS_dB)
		res.Set("inputPeakdB", l.Input.Peak_dB)
		res.Set("outputRMSdB", l.Output.RMS_dB)
		res.Set("outputPeakdB", l.Output.Peak_dB)
		res.Set("outputClipped", l.Output.Clipped)
		res.Set("gainDB", l.GainDB)
		return res
	}))

	api.Set("gainCurve", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		return float32Array(engine.GainCurveDB(floats(args[0])))
	}))

	js.Global().Set("SpectralEQ", api)
	select {}
}

// spectrogram flattens frames into one Uint8Array, frame after frame.
func spectrogram(s *stft.Spectrogram) js.Value {
	flat := make([]byte, 0, s.Len()*s.Bins)
	for _, row := range s.Frames {
		flat = append(flat, row...)
	}
	data := js.Global().Get("Uint8Array").New(len(flat))
	js.CopyBytesToJS(data, flat)

	res := js.Global().Get("Object").New()
	res.Set("frames", s.Len())
	res.Set("bins", s.Bins)
	res.Set("frameLength", s.FrameLength)
	res.Set("hopLength", s.HopLength)
	res.Set("data", data)
	return res
}

func floats(v js.Value) []float64 {
	out := make([]float64, v.Length())
	for i := range out {
		out[i] = v.Index(i).Float()
	}
	return out
}

func float32Array(x []float64) js.Value {
	arr := js.Global().Get("Float32Array").New(len(x))
	for i, v := range x {
		arr.SetIndex(i, v)
	}
	return arr
}

func intOr(v js.Value, def int) int {
	if v.Type() != js.TypeNumber {
		return def
	}
	return v.Int()
}

func floatOr(v js.Value, def float64) float64 {
	if v.Type() != js.TypeNumber {
		return def
	}
	return v.Float()
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
