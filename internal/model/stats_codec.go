package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UndefinedAverage is written in place of an average time that has no wins behind it
const UndefinedAverage = "#f"

// EncodeStatSet renders "<plays>,<wins>,<perfects>,<averageTime|#f>"
func EncodeStatSet(s StatSet) string {
	avg := UndefinedAverage
	if s.AverageTime != nil {
		avg = encodeAverage(*s.AverageTime)
	}
	return fmt.Sprintf("%d,%d,%d,%s", s.Plays, s.Wins, s.Perfects, avg)
}

// EncodeStatistics renders one "<size>:<statset>" line per entry, ascending by size
func EncodeStatistics(st Statistics) string {
	var sb strings.Builder
	for _, entry := range st.Sorted() {
		sb.WriteString(strconv.Itoa(entry.Size))
		sb.WriteByte(':')
		sb.WriteString(EncodeStatSet(entry.Stats))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func encodeAverage(avg float64) string {
	return strconv.FormatFloat(avg, 'f', -1, 64)
}

// parseCount accepts only the digits EncodeStatSet would write: no sign and
// no leading zeros, so decoded text always encodes back unchanged
func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || strconv.Itoa(n) != s {
		return 0, false
	}
	return n, true
}

// DecodeStatSet parses the four comma separated fields of a statistics line
func DecodeStatSet(fields string) (StatSet, error) {
	parts := strings.Split(fields, ",")
	if len(parts) != 4 {
		return StatSet{}, fmt.Errorf("%w: want 4 fields, got %d in %q", ErrMalformedStatisticsLine, len(parts), fields)
	}

	counts := make([]int, 3)
	for i, part := range parts[:3] {
		n, ok := parseCount(part)
		if !ok {
			return StatSet{}, fmt.Errorf("%w: bad count %q", ErrMalformedStatisticsLine, part)
		}
		counts[i] = n
	}

	s := StatSet{Plays: counts[0], Wins: counts[1], Perfects: counts[2]}
	if parts[3] != UndefinedAverage {
		avg, err := strconv.ParseFloat(parts[3], 64)
		if err != nil || math.IsNaN(avg) || math.IsInf(avg, 0) || encodeAverage(avg) != parts[3] {
			return StatSet{}, fmt.Errorf("%w: bad average time %q", ErrMalformedStatisticsLine, parts[3])
		}
		s.AverageTime = &avg
	}
	return s, nil
}

// DecodeStatisticsLine parses "<size>:<plays>,<wins>,<perfects>,<averageTime|#f>"
func DecodeStatisticsLine(line string) (SizedStatSet, error) {
	parts := strings.Split(line, ":")
	if len(parts) != 2 {
		return SizedStatSet{}, fmt.Errorf("%w: %q", ErrMalformedStatisticsLine, line)
	}
	size, ok := parseCount(parts[0])
	if !ok || size < 1 {
		return SizedStatSet{}, fmt.Errorf("%w: bad size in %q", ErrMalformedStatisticsLine, line)
	}
	stats, err := DecodeStatSet(parts[1])
	if err != nil {
		return SizedStatSet{}, err
	}
	return SizedStatSet{Size: size, Stats: stats}, nil
}

// DecodeStatistics parses a whole statistics file. Blank lines are skipped.
// A size may appear on only one line.
func DecodeStatistics(text string) (Statistics, error) {
	st := Statistics{}
	seen := make(map[int]int)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entry, err := DecodeStatisticsLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if first, dup := seen[entry.Size]; dup {
			return nil, fmt.Errorf("line %d: %w: size %d already given on line %d",
				i+1, ErrMalformedStatisticsLine, entry.Size, first)
		}
		seen[entry.Size] = i + 1
		st = append(st, entry)
	}
	return st, nil
}
