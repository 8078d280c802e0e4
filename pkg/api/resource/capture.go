package resource

type CaptureResource struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

type CaptureListResource struct {
	Root    string             `json:"root"`
	Members []*CaptureResource `json:"members"`
}

type ProbeListResource struct {
	File    string   `json:"file" yaml:"file"`
	Members []string `json:"members" yaml:"members"`
}

// ScanResultResource is one frame of a streamed scan.
type ScanResultResource struct {
	RunID   string            `json:"runId"`
	File    string            `json:"file"`
	Devices []*DeviceResource `json:"devices,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type ErrorResource struct {
	Message string `json:"message"`
}

func NewError(err error) *ErrorResource {
	return &ErrorResource{Message: err.Error()}
}
