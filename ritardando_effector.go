// ritardando_effector.go - Gradual tempo decay driven by player heartbeats

package main

// RitardandoEffector slows playback gradually while the ritardando flag is
// set. The player invokes HandleHeartbeat at its own internal cadence; the
// decrement is applied whenever the player's time position lands on an exact
// multiple of the check interval. The speed is not clamped; with the stock
// decrement a last verse ends long before the speed approaches zero.
type RitardandoEffector struct {
	player        Player
	stateMachine  *PlaybackStateMachine
	decrementRate float64
}

func NewRitardandoEffector(player Player, stateMachine *PlaybackStateMachine) *RitardandoEffector {
	return &RitardandoEffector{
		player:        player,
		stateMachine:  stateMachine,
		decrementRate: ritardandoDecrement,
	}
}

// SetDecrementRate overrides the speed reduction per check interval.
func (re *RitardandoEffector) SetDecrementRate(rate float64) { re.decrementRate = rate }

// DecrementRate returns the speed reduction per check interval.
func (re *RitardandoEffector) DecrementRate() float64 { return re.decrementRate }

// HandleHeartbeat is the player's heartbeat callback.
func (re *RitardandoEffector) HandleHeartbeat() {
	if !re.stateMachine.Ritardando() {
		return
	}
	if re.player.CurrentTimePos()%ritardandoCheckIntervalUsec == 0 {
		re.player.SetSpeed(re.player.GetSpeed() - re.decrementRate)
	}
}
