package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// NavigationEvent records one committed navigation transition.
type NavigationEvent struct {
	ent.Schema
}

func (NavigationEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (NavigationEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Navigation session the transition belongs to"),
		field.String("quiz_id").
			NotEmpty(),
		field.String("intent").
			NotEmpty().
			Comment("next, previous, submit or step(<id>)"),
		field.String("from_step_id"),
		field.String("to_step_id"),
		field.Bool("completed").
			Default(false).
			Comment("Transition ended the quiz"),
	}
}

func (NavigationEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("quiz_id"),
	}
}

func (NavigationEvent) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("session", NavigationSession.Type).
			Ref("events").
			Field("session_id").
			Unique().
			Required(),
	}
}
