package model

import (
	"fmt"
	"time"
)

type SyncMode string

const (
	SyncModePreview SyncMode = "preview"
	SyncModeApply   SyncMode = "apply"
)

// CapabilityDiff is the outcome of reconciling one model's current and desired capabilities.
type CapabilityDiff struct {
	ModelID         string           `json:"modelId"`
	Current         Capability       `json:"current"`
	Desired         Capability       `json:"desired"`
	Changed         bool             `json:"changed"`
	ChangedFields   []CapabilityKind `json:"changedFields,omitempty"`
	InDesiredSource bool             `json:"inDesiredSource"`
}

func (d CapabilityDiff) DesiredRecord() CapabilityRecord {
	return CapabilityRecord{ID: d.ModelID, Capability: d.Desired.Clone()}
}

type SyncReport struct {
	Mode             SyncMode           `json:"mode"`
	Source           string             `json:"source"`
	TotalModels      int                `json:"totalModels"`
	InSource         int                `json:"inSource"`
	UpdatedCount     int                `json:"updatedCount"`
	UnchangedCount   int                `json:"unchangedCount"`
	NotInSourceCount int                `json:"notInSourceCount"`
	FailedCount      int                `json:"failedCount"`
	UpdatedModels    []CapabilityRecord `json:"updatedModels"`
	Errors           []string           `json:"errors"`
	Timestamp        time.Time          `json:"timestamp"`
}

// ScrapeResult is built incrementally while extracting; partial results are valid.
type ScrapeResult struct {
	Models    []CapabilityRecord `json:"models"`
	Errors    []string           `json:"errors"`
	Timestamp time.Time          `json:"timestamp"`
}

func (r *ScrapeResult) Errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

type RecordError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

func (e RecordError) String() string {
	return e.ID + ": " + e.Reason
}

// BulkResult reports per-record outcomes of a bulk capability write.
type BulkResult struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Errors     []RecordError `json:"errors"`
}

func (r *BulkResult) Fail(id string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, RecordError{ID: id, Reason: err.Error()})
}
