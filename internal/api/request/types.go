package request

// NewGameRequest is the request body for starting a game
type NewGameRequest struct {
	Size int `json:"size"`
}

// RotateRequest is the request body for turning a tile
type RotateRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}
