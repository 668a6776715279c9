package pending

// Kind identifies the mutation carried by a pending item. The set is closed:
// adding a kind requires a payload struct and a gateway mapping.
type Kind string

const (
	KindHour      Kind = "hour"
	KindMaterial  Kind = "material"
	KindTask      Kind = "task"
	KindPhoto     Kind = "photo"
	KindSignature Kind = "signature"
	KindNote      Kind = "note"
)

// Valid reports whether k is one of the six known mutation kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindHour, KindMaterial, KindTask, KindPhoto, KindSignature, KindNote:
		return true
	}
	return false
}

// TaskStatus is the status a technician can set on an intervention task.
type TaskStatus string

const (
	TaskTodo TaskStatus = "a_faire"
	TaskDone TaskStatus = "fait"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	return s == TaskTodo || s == TaskDone
}

// PhotoKind classifies a captured photo within the intervention workflow.
type PhotoKind string

const (
	PhotoBefore PhotoKind = "avant"
	PhotoDuring PhotoKind = "pendant"
	PhotoAfter  PhotoKind = "apres"
	PhotoOIBT   PhotoKind = "oibt"
	PhotoDefect PhotoKind = "defaut"
)

// Valid reports whether p is a known photo kind.
func (p PhotoKind) Valid() bool {
	switch p {
	case PhotoBefore, PhotoDuring, PhotoAfter, PhotoOIBT, PhotoDefect:
		return true
	}
	return false
}
