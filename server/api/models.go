package api

// these are the models that are received from and sent to the client. They
// are distinct from the world and transcript types.

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token       string `json:"token"`
	CharacterID string `json:"character_id"`
}

type CommandRequest struct {
	Input string `json:"input"`
}

type CommandModel struct {
	ID      string `json:"id,omitempty"`
	Input   string `json:"input"`
	Output  string `json:"output"`
	Created string `json:"created,omitempty"`
}

type InfoModel struct {
	Version struct {
		Server  string `json:"server"`
		TunaMUD string `json:"tunamud"`
	} `json:"version"`
}
