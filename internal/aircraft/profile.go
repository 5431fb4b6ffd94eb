// Package aircraft holds the per-aircraft airspeed tables used to time legs.
//
// Each profile is an ordered list of altitude breakpoints read by one of
// three rules:
//
//	step      speed of the nearest breakpoint at or below the altitude
//	linear    interpolate between the two surrounding breakpoints
//	constant  a single speed across the documented altitude range
//
// Altitudes outside the documented range clamp to the nearest boundary and
// are reported as clamped. Adding an aircraft is a change to profiles.json,
// or to a file passed to LoadFile.
package aircraft

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/couchcryptid/storm-flight-track/internal/domain"
)

//go:embed profiles.json
var builtinProfiles []byte

// Mode selects how breakpoints are read.
type Mode string

const (
	ModeStep     Mode = "step"
	ModeLinear   Mode = "linear"
	ModeConstant Mode = "constant"
)

// Breakpoint is a documented flight level and its true airspeed.
type Breakpoint struct {
	AltitudeFt float64 `json:"altitude_ft"`
	SpeedKt    float64 `json:"speed_kt"`
}

// Padding is a fixed climb-out/descent allowance flown after takeoff and
// before landing.
type Padding struct {
	Minutes    float64 `json:"minutes"`
	DistanceNM float64 `json:"distance_nm"`
}

// Duration returns the padding time.
func (p Padding) Duration() time.Duration {
	return time.Duration(p.Minutes * float64(time.Minute))
}

// Profile is one aircraft's speed table.
type Profile struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	CallSign    string       `json:"call_sign"`
	Mode        Mode         `json:"mode"`
	CruiseKt    float64      `json:"cruise_kt"`
	Breakpoints []Breakpoint `json:"breakpoints"`
	Padding     *Padding     `json:"padding,omitempty"`
}

// Speed returns the true airspeed at altitude. clamped is true when the
// altitude lies outside the documented breakpoints.
func (p Profile) Speed(altitudeFt float64) (kt float64, clamped bool) {
	bps := p.Breakpoints
	first, last := bps[0], bps[len(bps)-1]
	if altitudeFt < first.AltitudeFt {
		return first.SpeedKt, true
	}
	if altitudeFt > last.AltitudeFt {
		return last.SpeedKt, true
	}

	switch p.Mode {
	case ModeConstant:
		return first.SpeedKt, false
	case ModeLinear:
		i := sort.Search(len(bps), func(i int) bool { return bps[i].AltitudeFt >= altitudeFt })
		if bps[i].AltitudeFt == altitudeFt || i == 0 {
			return bps[i].SpeedKt, false
		}
		lo, hi := bps[i-1], bps[i]
		f := (altitudeFt - lo.AltitudeFt) / (hi.AltitudeFt - lo.AltitudeFt)
		return lo.SpeedKt + f*(hi.SpeedKt-lo.SpeedKt), false
	default:
		i := sort.Search(len(bps), func(i int) bool { return bps[i].AltitudeFt > altitudeFt })
		return bps[i-1].SpeedKt, false
	}
}

// Range returns the lowest and highest documented altitude.
func (p Profile) Range() (lowFt, highFt float64) {
	return p.Breakpoints[0].AltitudeFt, p.Breakpoints[len(p.Breakpoints)-1].AltitudeFt
}

func (p Profile) validate() error {
	if p.ID == "" {
		return errors.New("profile missing id")
	}
	switch p.Mode {
	case ModeStep, ModeLinear, ModeConstant:
	default:
		return fmt.Errorf("profile %s: unknown mode %q", p.ID, p.Mode)
	}
	if p.CruiseKt <= 0 {
		return fmt.Errorf("profile %s: cruise speed must be positive", p.ID)
	}
	if len(p.Breakpoints) == 0 {
		return fmt.Errorf("profile %s: no breakpoints", p.ID)
	}
	for i, bp := range p.Breakpoints {
		if bp.SpeedKt <= 0 {
			return fmt.Errorf("profile %s: breakpoint %d speed must be positive", p.ID, i)
		}
		if i > 0 && bp.AltitudeFt <= p.Breakpoints[i-1].AltitudeFt {
			return fmt.Errorf("profile %s: breakpoints must ascend by altitude", p.ID)
		}
	}
	if p.Padding != nil && (p.Padding.Minutes < 0 || p.Padding.DistanceNM < 0) {
		return fmt.Errorf("profile %s: padding must not be negative", p.ID)
	}
	return nil
}

// Table maps aircraft identifiers to profiles. It is read-only after Load
// and safe for concurrent use.
type Table struct {
	profiles map[string]Profile
}

type tableFile struct {
	Aircraft []Profile `json:"aircraft"`
}

// Load decodes a profile table from JSON.
func Load(r io.Reader) (*Table, error) {
	var f tableFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	t := &Table{profiles: make(map[string]Profile, len(f.Aircraft))}
	for _, p := range f.Aircraft {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, dup := t.profiles[p.ID]; dup {
			return nil, fmt.Errorf("duplicate profile %s", p.ID)
		}
		if p.CallSign == "" {
			p.CallSign = "N" + p.ID + "RF"
		}
		t.profiles[p.ID] = p
	}
	return t, nil
}

// LoadFile loads a profile table from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Default returns the built-in table.
func Default() *Table {
	t, err := Load(bytes.NewReader(builtinProfiles))
	if err != nil {
		panic(fmt.Sprintf("built-in profiles: %v", err))
	}
	return t
}

// Lookup returns the profile for an aircraft identifier. Unknown identifiers
// fail with domain.ErrUnknownAircraft.
func (t *Table) Lookup(id string) (Profile, error) {
	p, ok := t.profiles[id]
	if !ok {
		return Profile{}, domain.NewRecordError(domain.ErrUnknownAircraft, 0, "", "no speed profile for aircraft %q", id)
	}
	return p, nil
}

// IDs returns the known aircraft identifiers in ascending order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.profiles))
	for id := range t.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
