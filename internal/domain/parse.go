package domain

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/couchcryptid/storm-flight-track/internal/geodesy"
)

// MaxIntermediateCount bounds the number of points a single I directive may insert.
const MaxIntermediateCount = 50

// takeoffRe matches the header's takeoff field, e.g. "23/2200Z" -> day=23, hhmm=2200.
var takeoffRe = regexp.MustCompile(`^(\d{1,2})/(\d{4})Z?$`)

// aircraftRe matches a numeric aircraft identifier, e.g. "42".
var aircraftRe = regexp.MustCompile(`^\d{1,3}$`)

// ParseOptions controls how coordinates are normalized.
type ParseOptions struct {
	// WestHemisphere makes every longitude negative. When false every
	// longitude is positive. The sign written in the file is ignored.
	WestHemisphere bool
}

// ParseMission reads a mission-definition file. The result is structurally
// valid: optional H first, exactly one A and one Z bounding the track, no S
// before H, and every I directive followed by a leg.
func ParseMission(r io.Reader, opts ParseOptions) (Mission, error) {
	var (
		m       Mission
		lineNo  int
		haveHdr bool
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if !haveHdr {
			if err := parseHeader(&m, lineNo, text); err != nil {
				return Mission{}, err
			}
			haveHdr = true
			continue
		}
		rec, err := parseRecord(lineNo, text, opts)
		if err != nil {
			return Mission{}, err
		}
		m.Records = append(m.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return Mission{}, fmt.Errorf("read mission: %w", err)
	}
	if !haveHdr {
		return Mission{}, NewRecordError(ErrMalformedRecord, 0, "", "empty mission file")
	}
	if err := validateSequence(m.Records); err != nil {
		return Mission{}, err
	}
	return m, nil
}

// parseHeader handles line 1: "<aircraft> <DD/HHMMZ> [title]".
func parseHeader(m *Mission, lineNo int, text string) error {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return NewRecordError(ErrMalformedRecord, lineNo, text,
			"header must be <aircraft> <DD/HHMMZ> [title], found %d fields", len(fields))
	}
	if !aircraftRe.MatchString(fields[0]) {
		return NewRecordError(ErrMalformedRecord, lineNo, text, "aircraft %q is not numeric", fields[0])
	}
	match := takeoffRe.FindStringSubmatch(strings.ToUpper(fields[1]))
	if match == nil {
		return NewRecordError(ErrMalformedRecord, lineNo, text, "takeoff %q is not DD/HHMMZ", fields[1])
	}
	day, _ := strconv.Atoi(match[1])
	hour, _ := strconv.Atoi(match[2][:2])
	minute, _ := strconv.Atoi(match[2][2:])
	if day < 1 || day > 31 || hour > 23 || minute > 59 {
		return NewRecordError(ErrMalformedRecord, lineNo, text, "takeoff %q out of range", fields[1])
	}

	m.Aircraft = strings.TrimLeft(fields[0], "0")
	if m.Aircraft == "" {
		m.Aircraft = "0"
	}
	m.Takeoff = TakeoffTime{Day: day, Hour: hour, Minute: minute}
	m.Title = DefaultTitle
	if len(fields) > 2 {
		m.Title = strings.Join(fields[2:], " ")
	}
	return nil
}

// parseRecord dispatches on the leading marker token.
func parseRecord(lineNo int, text string, opts ParseOptions) (Record, error) {
	fields := strings.Fields(text)
	marker, args := fields[0], fields[1:]

	switch marker {
	case "H":
		return parseStormReference(lineNo, text, args, opts)
	case "A":
		if len(args) == 0 {
			return nil, NewRecordError(ErrMalformedRecord, lineNo, text, "takeoff needs a station name")
		}
		return Takeoff{LineNo: lineNo, Station: strings.Join(args, " ")}, nil
	case "Z":
		if len(args) == 0 {
			return nil, NewRecordError(ErrMalformedRecord, lineNo, text, "landing needs a station name")
		}
		return Landing{LineNo: lineNo, Station: strings.Join(args, " ")}, nil
	case "S":
		nums, err := parseNumbers(lineNo, text, args, 3)
		if err != nil {
			return nil, err
		}
		if nums[0] < 0 {
			return nil, NewRecordError(ErrMalformedRecord, lineNo, text, "negative radius %g", nums[0])
		}
		return StormRelativePoint{LineNo: lineNo, RadiusNM: nums[0], Azimuth: nums[1], AltitudeFt: nums[2]}, nil
	case "T":
		pos, alt, err := parsePosition(lineNo, text, args, opts)
		if err != nil {
			return nil, err
		}
		return TurnOnly{LineNo: lineNo, Position: pos, AltitudeFt: alt}, nil
	case "I":
		return parseIntermediate(lineNo, text, args)
	}

	if _, err := strconv.ParseFloat(marker, 64); err != nil {
		return nil, NewRecordError(ErrMalformedRecord, lineNo, text, "unknown record marker %q", marker)
	}
	pos, alt, err := parsePosition(lineNo, text, fields, opts)
	if err != nil {
		return nil, err
	}
	return EarthPoint{LineNo: lineNo, Position: pos, AltitudeFt: alt}, nil
}

// parseStormReference accepts "lat lon", "lat lon dir spd" or
// "latD latM lonD lonM dir spd". Missing motion means a stationary storm.
func parseStormReference(lineNo int, text string, args []string, opts ParseOptions) (Record, error) {
	if len(args) != 2 && len(args) != 4 && len(args) != 6 {
		return nil, NewRecordError(ErrMalformedRecord, lineNo, text,
			"storm reference needs 2, 4 or 6 fields, found %d", len(args))
	}
	nums, err := parseNumbers(lineNo, text, args, len(args))
	if err != nil {
		return nil, err
	}

	h := StormReference{LineNo: lineNo}
	switch len(nums) {
	case 2:
		h.Position = makePoint(nums[0], nums[1], opts)
	case 4:
		h.Position = makePoint(nums[0], nums[1], opts)
		h.MotionBearing, h.MotionSpeedKt = nums[2], nums[3]
	case 6:
		h.Position = makePoint(degMin(nums[0], nums[1]), degMin(nums[2], nums[3]), opts)
		h.MotionBearing, h.MotionSpeedKt = nums[4], nums[5]
	}
	if h.MotionSpeedKt < 0 {
		return nil, NewRecordError(ErrMalformedRecord, lineNo, text, "negative storm speed %g", h.MotionSpeedKt)
	}
	h.MotionBearing = geodesy.NormalizeBearing(h.MotionBearing)
	return h, nil
}

// parsePosition accepts "lat lon alt" or "latD latM lonD lonM alt".
func parsePosition(lineNo int, text string, args []string, opts ParseOptions) (geodesy.Point, float64, error) {
	if len(args) != 3 && len(args) != 5 {
		return geodesy.Point{}, 0, NewRecordError(ErrMalformedRecord, lineNo, text,
			"position needs lat lon alt or latD latM lonD lonM alt, found %d fields", len(args))
	}
	nums, err := parseNumbers(lineNo, text, args, len(args))
	if err != nil {
		return geodesy.Point{}, 0, err
	}
	if len(nums) == 3 {
		return makePoint(nums[0], nums[1], opts), nums[2], nil
	}
	return makePoint(degMin(nums[0], nums[1]), degMin(nums[2], nums[3]), opts), nums[4], nil
}

func parseIntermediate(lineNo int, text string, args []string) (Record, error) {
	if len(args) != 2 {
		return nil, NewRecordError(ErrMalformedRecord, lineNo, text,
			"intermediate directive needs count and altitude, found %d fields", len(args))
	}
	count, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, NewRecordError(ErrMalformedRecord, lineNo, text, "count %q is not an integer", args[0])
	}
	if count < 1 || count > MaxIntermediateCount {
		return nil, NewRecordError(ErrInvalidDirective, lineNo, text,
			"count %d outside 1..%d", count, MaxIntermediateCount)
	}
	alt, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return nil, NewRecordError(ErrMalformedRecord, lineNo, text, "altitude %q is not numeric", args[1])
	}
	return IntermediateDirective{LineNo: lineNo, Count: count, AltitudeFt: alt}, nil
}

// parseNumbers parses exactly want numeric fields.
func parseNumbers(lineNo int, text string, args []string, want int) ([]float64, error) {
	if len(args) != want {
		return nil, NewRecordError(ErrMalformedRecord, lineNo, text, "want %d numeric fields, found %d", want, len(args))
	}
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, NewRecordError(ErrMalformedRecord, lineNo, text, "field %d (%q) is not numeric", i+1, a)
		}
		out[i] = v
	}
	return out, nil
}

// degMin folds a degree-minute pair into decimal degrees; the sign comes
// from the degree part.
func degMin(deg, minutes float64) float64 {
	v := math.Abs(deg) + math.Abs(minutes)/60
	if math.Signbit(deg) {
		return -v
	}
	return v
}

// makePoint applies the hemisphere convention to the longitude.
func makePoint(lat, lon float64, opts ParseOptions) geodesy.Point {
	lon = math.Abs(lon)
	if opts.WestHemisphere {
		lon = -lon
	}
	return geodesy.Point{Lat: lat, Lon: lon}
}

// validateSequence enforces the structural invariants of a mission.
func validateSequence(recs []Record) error {
	var takeoffs, landings int
	sawStorm := false

	for i, r := range recs {
		switch v := r.(type) {
		case StormReference:
			if i != 0 {
				return NewRecordError(ErrMalformedRecord, v.LineNo, "", "storm reference must be the first record")
			}
			sawStorm = true
		case Takeoff:
			takeoffs++
			first := 0
			if sawStorm {
				first = 1
			}
			if i != first || takeoffs > 1 {
				return NewRecordError(ErrMalformedRecord, v.LineNo, "", "takeoff must be the first track record")
			}
		case Landing:
			landings++
			if i != len(recs)-1 {
				return NewRecordError(ErrMalformedRecord, v.LineNo, "", "landing must be the last record")
			}
		case StormRelativePoint:
			if !sawStorm {
				return NewRecordError(ErrMissingStormReference, v.LineNo, "", "storm-relative point without an H record")
			}
		case IntermediateDirective:
			if i+1 >= len(recs) {
				return NewRecordError(ErrInvalidDirective, v.LineNo, "", "no leg follows the directive")
			}
			next := recs[i+1]
			if _, isTakeoff := next.(Takeoff); isTakeoff || !Positional(next) {
				return NewRecordError(ErrInvalidDirective, v.LineNo, "",
					"directive must be followed by a track point, found %q record on line %d", markerName(next), next.Line())
			}
			if i == 0 || !Positional(recs[i-1]) {
				return NewRecordError(ErrInvalidDirective, v.LineNo, "", "directive must follow a track point")
			}
		}
	}
	if takeoffs == 0 {
		return NewRecordError(ErrMalformedRecord, 0, "", "mission has no takeoff (A) record")
	}
	if landings == 0 {
		return NewRecordError(ErrMalformedRecord, 0, "", "mission has no landing (Z) record")
	}
	return nil
}

func markerName(r Record) string {
	if m := r.Marker(); m != "" {
		return m
	}
	return "point"
}
