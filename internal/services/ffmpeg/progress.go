package ffmpeg

import (
	"strconv"
	"strings"
	"time"
)

// progressParser accumulates the key=value blocks ffmpeg writes to its
// progress stream and emits one update per block. Percent is derived from
// out_time against the source duration and never moves backwards.
type progressParser struct {
	duration    time.Duration
	outTime     time.Duration
	speed       string
	lastPercent float64
}

func newProgressParser(duration time.Duration) *progressParser {
	return &progressParser{duration: duration}
}

// feed consumes one line of the progress stream. A block ends with a
// "progress=" line, at which point an update is returned.
func (p *progressParser) feed(line string) (ProgressUpdate, bool) {
	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found {
		return ProgressUpdate{}, false
	}
	value = strings.TrimSpace(value)

	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds.
		if micros, err := strconv.ParseInt(value, 10, 64); err == nil && micros >= 0 {
			p.outTime = time.Duration(micros) * time.Microsecond
		}
		return ProgressUpdate{}, false
	case "out_time":
		if parsed, ok := parseClockTime(value); ok {
			p.outTime = parsed
		}
		return ProgressUpdate{}, false
	case "speed":
		p.speed = value
		return ProgressUpdate{}, false
	case "progress":
		done := value == "end"
		update := ProgressUpdate{
			OutTime: p.outTime,
			Percent: p.percent(done),
			Speed:   p.speed,
			Done:    done,
		}
		return update, true
	default:
		return ProgressUpdate{}, false
	}
}

func (p *progressParser) percent(done bool) float64 {
	if done {
		p.lastPercent = 100
		return 100
	}
	if p.duration <= 0 {
		return p.lastPercent
	}
	percent := float64(p.outTime) / float64(p.duration) * 100
	if percent > 99.9 {
		percent = 99.9
	}
	if percent < p.lastPercent {
		return p.lastPercent
	}
	p.lastPercent = percent
	return percent
}

func parseClockTime(value string) (time.Duration, bool) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err1 := strconv.Atoi(parts[0])
	minutes, err2 := strconv.Atoi(parts[1])
	seconds, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
	return total, true
}
