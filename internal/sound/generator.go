package sound

import (
	"math"
	"math/rand"
)

const generatorSampleRate = 48000

// floatBuffer is mono float64 samples at unity gain
type floatBuffer []float64

// oscillator generates raw sine samples with an exponential pitch drop,
// which is what makes a thud sound like something heavy landing.
func oscillator(startFreq, endFreq float64, samples int) floatBuffer {
	buf := make(floatBuffer, samples)
	phase := 0.0

	for i := 0; i < samples; i++ {
		t := float64(i) / float64(samples)
		freq := startFreq * math.Pow(endFreq/startFreq, t)
		buf[i] = math.Sin(2 * math.Pi * phase)
		phase += freq / generatorSampleRate
		if phase >= 1.0 {
			phase -= 1.0
		}
	}
	return buf
}

// applyEnvelope applies attack/release envelope in place
func applyEnvelope(buf floatBuffer, attackSec, releaseSec float64) {
	total := len(buf)
	attackSamples := int(attackSec * generatorSampleRate)
	releaseSamples := int(releaseSec * generatorSampleRate)

	releaseStart := total - releaseSamples
	if releaseStart < attackSamples {
		releaseStart = attackSamples
	}

	for i := 0; i < total; i++ {
		vol := 1.0
		if i < attackSamples && attackSamples > 0 {
			vol = float64(i) / float64(attackSamples)
		} else if i >= releaseStart && releaseSamples > 0 {
			vol = float64(total-i) / float64(releaseSamples)
		}
		buf[i] *= vol
	}
}

// addNoise mixes scaled white noise into the first portion of the
// buffer for the impact "crack".
func addNoise(buf floatBuffer, portion, scale float64) {
	limit := int(float64(len(buf)) * portion)
	for i := 0; i < limit && i < len(buf); i++ {
		fade := 1.0 - float64(i)/float64(limit)
		buf[i] += (rand.Float64()*2 - 1) * scale * fade
		if buf[i] > 1 {
			buf[i] = 1
		} else if buf[i] < -1 {
			buf[i] = -1
		}
	}
}

// generateThud builds the impact sound: a 90 ms pitch-dropping sine
// with a noisy onset and a fast release.
func generateThud() floatBuffer {
	const durationSec = 0.09
	samples := int(durationSec * generatorSampleRate)

	buf := oscillator(180, 55, samples)
	addNoise(buf, 0.2, 0.35)
	applyEnvelope(buf, 0.002, 0.05)
	return buf
}
