package filefairy

import (
	"context"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"reflect"
)

var validate = validator.New()

// Response is what every plugin handler returns: notifications to broadcast to other
// plugins, patches to merge into other plugins' state and tasks to run once the current
// dispatch is done. A nil *Response is treated as an empty one
type Response struct {
	Notify  []Notification
	Patches []Patch
	Tasks   []Task
}

// Patch requests Data be merged into the state document of the plugin named Destination,
// under the dot-separated Key path. A nil Data is a no-op
type Patch struct {
	Destination string `validate:"required"`
	Key         string `validate:"required"`
	Data        interface{}
}

// TaskFunc is the deferred work carried by a Task
type TaskFunc func(ctx context.Context) error

// Task is a deferred unit of work executed after the patches of its Response have been
// applied
type Task struct {
	ID          uuid.UUID
	Description string
	Fn          TaskFunc
}

// Empty returns a Response with no notification, patch or task
func Empty() (r *Response) {
	return &Response{Notify: []Notification{}, Patches: []Patch{}, Tasks: []Task{}}
}

// Notify returns a Response signaling the given notifications. It panics on unknown
// notifications and is meant for handlers returning constant kinds
func Notify(notifications ...Notification) (r *Response) {
	r, err := NewResponse(notifications)
	if err != nil {
		panic(err)
	}

	return r
}

// NewResponse creates a Response after validating the notifications and patches
func NewResponse(notify []Notification, patches ...Patch) (r *Response, err error) {
	r = Empty()

	if err = r.AppendNotify(notify...); err != nil {
		return nil, err
	}

	for _, p := range patches {
		if err = p.Validate(); err != nil {
			return nil, err
		}

		r.Patches = append(r.Patches, p)
	}

	return r, nil
}

// NewPatch creates a validated Patch
func NewPatch(destination string, key string, data interface{}) (p Patch, err error) {
	p = Patch{Destination: destination, Key: key, Data: data}

	return p, p.Validate()
}

// Validate returns an error wrapping ErrInvalidPatch if the destination or key is empty
func (p Patch) Validate() (err error) {
	if err = validate.Struct(p); err != nil {
		return errors.Wrapf(ErrInvalidPatch, "%s/%s: %v", p.Destination, p.Key, err)
	}

	return nil
}

// AppendNotify adds notifications to the response, in order. Duplicates are allowed
func (r *Response) AppendNotify(notifications ...Notification) (err error) {
	for _, n := range notifications {
		if !n.Valid() {
			return errors.Wrapf(ErrUnknownNotification, "%d", int(n))
		}
	}

	r.Notify = append(r.Notify, notifications...)
	return nil
}

// AppendTask adds a deferred task to the response and returns it
func (r *Response) AppendTask(description string, fn TaskFunc) (t Task) {
	t = Task{ID: uuid.New(), Description: description, Fn: fn}
	r.Tasks = append(r.Tasks, t)

	return t
}

// IsEmpty returns true if the response carries nothing to apply
func (r *Response) IsEmpty() bool {
	return r == nil || (len(r.Notify) == 0 && len(r.Patches) == 0 && len(r.Tasks) == 0)
}

// Equal returns true if both responses are structurally equal. Tasks are compared by ID
func (r *Response) Equal(o *Response) bool {
	if r == nil {
		r = Empty()
	}
	if o == nil {
		o = Empty()
	}

	if len(r.Notify) != len(o.Notify) || len(r.Patches) != len(o.Patches) || len(r.Tasks) != len(o.Tasks) {
		return false
	}

	for i := range r.Notify {
		if r.Notify[i] != o.Notify[i] {
			return false
		}
	}

	for i := range r.Patches {
		if r.Patches[i].Destination != o.Patches[i].Destination || r.Patches[i].Key != o.Patches[i].Key || !reflect.DeepEqual(r.Patches[i].Data, o.Patches[i].Data) {
			return false
		}
	}

	for i := range r.Tasks {
		if r.Tasks[i].ID != o.Tasks[i].ID {
			return false
		}
	}

	return true
}
