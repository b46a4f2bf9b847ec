// internal/scene/scene.go
package scene

// Scene is the coarse UI screen selector. Navigation is a flat overwrite;
// there is no history stack.
type Scene string

const (
	Start  Scene = "start"
	Lobby  Scene = "lobby"
	Create Scene = "create"
	Room   Scene = "room"
	Game   Scene = "game"
)

// IsValid reports whether s names a known scene.
func (s Scene) IsValid() bool {
	switch s {
	case Start, Lobby, Create, Room, Game:
		return true
	}
	return false
}
