package model

import (
	"encoding/json"
	"time"
)

// AppData is the persisted root: every mutation produces a new one.
type AppData struct {
	Settings Settings `json:"settings"`
	Todos    []Task   `json:"todos"`
}

func DefaultAppData() AppData {
	return AppData{
		Settings: DefaultSettings(),
		Todos:    []Task{},
	}
}

// FreshAppData is the default state with the default list stamped at now.
func FreshAppData(now int64) AppData {
	data := DefaultAppData()
	data.Settings.Lists[0].CreatedAt = now
	return data
}

func (d *AppData) UnmarshalJSON(b []byte) error {
	type plain AppData
	decoded := plain(DefaultAppData())
	if err := json.Unmarshal(b, &decoded); err != nil {
		return err
	}
	*d = AppData(decoded)
	return nil
}

// Clone returns a deep copy sharing no pointers or slices with d.
func (d AppData) Clone() AppData {
	out := AppData{Settings: d.Settings.Clone()}
	if d.Todos != nil {
		out.Todos = make([]Task, len(d.Todos))
		for i, t := range d.Todos {
			out.Todos[i] = t.Clone()
		}
	}
	return out
}

func (d AppData) Task(id string) (Task, bool) {
	for _, t := range d.Todos {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// NowMillis is the wall clock in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// StringPtr and Int64Ptr build optional fields inline.
func StringPtr(v string) *string { return &v }

func Int64Ptr(v int64) *int64 { return &v }

func IntPtr(v int) *int { return &v }
