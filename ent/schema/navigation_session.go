package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// NavigationSession holds one end user's traversal state for a quiz.
type NavigationSession struct {
	ent.Schema
}

func (NavigationSession) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),
		field.String("quiz_id").
			NotEmpty(),
		field.String("status").
			Comment("in_progress or completed"),
		field.String("current_step_id"),
		field.JSON("state", map[string]any{}).
			Comment("Full navigation state as JSON"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now),
	}
}

func (NavigationSession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("quiz_id"),
		index.Fields("status"),
	}
}

func (NavigationSession) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("quiz", Quiz.Type).
			Ref("sessions").
			Field("quiz_id").
			Unique().
			Required(),
		edge.To("events", NavigationEvent.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}
