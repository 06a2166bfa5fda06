package engine

import (
	"club-pulse/internal/database"
	"club-pulse/internal/engine/actors"
	"club-pulse/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine wires the aggregate actors together. One actor per aggregate type;
// each actor's mailbox serializes writes to the aggregates it owns.
type Engine struct {
	discussionActor    *actor.PID
	communityActor     *actor.PID
	communityPostActor *actor.PID
	userActor          *actor.PID
}

func NewEngine(system *actor.ActorSystem, db database.Store, metrics *utils.MetricsCollector) *Engine {
	context := system.Root

	discussionProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewDiscussionActor(db, metrics)
	})
	discussionPID := context.Spawn(discussionProps)

	communityProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommunityActor(db, metrics)
	})
	communityPID := context.Spawn(communityProps)

	postProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommunityPostActor(db, metrics)
	})
	postPID := context.Spawn(postProps)

	userProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(db, metrics)
	})
	userPID := context.Spawn(userProps)

	return &Engine{
		discussionActor:    discussionPID,
		communityActor:     communityPID,
		communityPostActor: postPID,
		userActor:          userPID,
	}
}

// GetDiscussionActor returns the PID of the discussion actor
func (e *Engine) GetDiscussionActor() *actor.PID {
	return e.discussionActor
}

// GetCommunityActor returns the PID of the community actor
func (e *Engine) GetCommunityActor() *actor.PID {
	return e.communityActor
}

// GetCommunityPostActor returns the PID of the community post actor
func (e *Engine) GetCommunityPostActor() *actor.PID {
	return e.communityPostActor
}

// GetUserActor returns the PID of the user actor
func (e *Engine) GetUserActor() *actor.PID {
	return e.userActor
}
