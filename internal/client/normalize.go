package client

import "github.com/google/uuid"

// RawRecord is an appointment as older deployments of the API may still
// serialize it. Field names drifted across schema versions: the record id
// appeared as "_id" or "id", the department was renamed "specialist", and
// the visit reason was renamed "symptom".
type RawRecord struct {
	LegacyID   string `json:"_id"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	DoctorName string `json:"doctorName"`
	Specialist string `json:"specialist"`
	Department string `json:"department"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Symptom    string `json:"symptom"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	OwnerID    string `json:"userId"`
	CreatedAt  string `json:"createdAt"`
}

// Record is the canonical client-side shape after normalization.
type Record struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	DoctorName string
	Specialist string
	Date       string
	Time       string
	Symptom    string
	Status     string
	OwnerID    string
	CreatedAt  string
}

const defaultStatus = "Confirmed"

// Normalize maps a raw record onto the canonical shape, applying the legacy
// field fallbacks in one place. Fallbacks only fire when the canonical field
// is empty, so normalizing an already-normalized record is a no-op.
func Normalize(raw RawRecord) Record {
	id := raw.LegacyID

	if id == "" {
		id = raw.ID
	}

	if id == "" {
		// never persisted, never reused; only keeps the row addressable
		// in the local list
		id = uuid.NewString()
	}

	specialist := raw.Specialist

	if specialist == "" {
		specialist = raw.Department
	}

	symptom := raw.Symptom

	if symptom == "" {
		symptom = raw.Reason
	}

	status := raw.Status

	if status == "" {
		status = defaultStatus
	}

	return Record{
		ID:         id,
		Name:       raw.Name,
		Email:      raw.Email,
		Phone:      raw.Phone,
		DoctorName: raw.DoctorName,
		Specialist: specialist,
		Date:       raw.Date,
		Time:       raw.Time,
		Symptom:    symptom,
		Status:     status,
		OwnerID:    raw.OwnerID,
		CreatedAt:  raw.CreatedAt,
	}
}

// Raw converts a canonical record back into the wire shape. Useful for
// round-trip checks and for callers that still speak the legacy format.
func (r Record) Raw() RawRecord {
	return RawRecord{
		LegacyID:   r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		DoctorName: r.DoctorName,
		Specialist: r.Specialist,
		Date:       r.Date,
		Time:       r.Time,
		Symptom:    r.Symptom,
		Status:     r.Status,
		OwnerID:    r.OwnerID,
		CreatedAt:  r.CreatedAt,
	}
}
