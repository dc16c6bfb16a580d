// Package fakebook is a social-graph server exposing one dataset through two
// parallel query surfaces.
//
// # Architecture
//
// The dataset (users, posts, comments) is loaded once at startup and held
// in memory for the process lifetime. Two gateways serve it:
//
//   - gateway/graphql: a schema-driven GraphQL endpoint. Queries are parsed
//     and validated with gqlparser, then resolved depth-first through an
//     explicit (type, field) resolver table backed by the relation resolver.
//   - gateway/http: fixed REST routes (login, entity lookups, a protected
//     profile route) implemented as direct linear-scan projections.
//
// Authentication is token based: POST /login issues a signed, time-limited
// JWT binding a user identity; the auth package verifies tokens on every
// request and places the caller identity in the request context. The single
// mutation, likePost, requires an authenticated caller.
//
// Package layout:
//
//   - types: entity types shared by all packages
//   - store: the in-memory dataset with the one mutating operation
//   - graph: relation resolution (friends, posts, likers, comments, feed)
//   - auth: token issue/verify and the request auth gate
//   - errors: classified error handling
//   - config, metric: configuration and Prometheus metrics
package fakebook
