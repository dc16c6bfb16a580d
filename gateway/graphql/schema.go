package graphql

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// schemaSource is the graph query schema. Requests are validated against
// it before execution, so the executor only ever sees known fields.
const schemaSource = `
type User {
  id: ID!
  name: String
  avatar: String
  friends: [User]
  posts: [Post]
}

type Post {
  id: ID!
  content: String
  author: User
  likes: [User]
  comments: [Comment]
}

type Comment {
  id: ID!
  text: String
  author: User
}

type Query {
  user(id: ID!): User
  post(id: ID!): Post
  feedForUser(id: ID!): [Post]
}

type Mutation {
  likePost(postId: ID!): Post
}
`

// loadSchema parses the schema source. Panics on an invalid schema, which
// is a programming error caught by any test.
func loadSchema() *ast.Schema {
	return gqlparser.MustLoadSchema(&ast.Source{
		Name:  "fakebook.graphql",
		Input: schemaSource,
	})
}
