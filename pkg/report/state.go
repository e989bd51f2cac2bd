package report

type State int32

const (
	Idle State = iota
	Generating
	RefreshingStats
	AwaitingRender
	FetchingTasks
	Rendering
	Downloading
	Failed
)

var stateNames = map[State]string{
	Idle:            "Idle",
	Generating:      "Generating",
	RefreshingStats: "RefreshingStats",
	AwaitingRender:  "AwaitingRender",
	FetchingTasks:   "FetchingTasks",
	Rendering:       "Rendering",
	Downloading:     "Downloading",
	Failed:          "Failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}
