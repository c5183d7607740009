/*
Package protocol is a library for building compatible veriai coordinators
and participants.

protocol defines the data model and the pure building blocks of the
two-agent challenge-response verification protocol. The stateful session
coordinator lives in the coordinator subpackage, and the persistent audit
trail in the auditlog subpackage.

Challenge

This module holds the fixed catalog of challenge templates. Each template
carries a prompt and a set of lowercase keyword patterns used to score
responses. A coordinator picks one template uniformly at random when a
session is created.

Evaluator

This module implements the acceptance rule applied to every response. The
default HeuristicEvaluator accepts a response iff it contains at least two of
the challenge's patterns and more than ten whitespace-delimited words. It is
a crude proxy and is exposed behind the Evaluator interface so a stronger
implementation can be substituted.

Error

This module defines the constants representing the types of errors that
a coordinator may return to a participant.

Message

This module defines the request messages a participant sends to the
coordinator and the corresponding responses, together with their
constructors.

Session

This module defines sessions, responses, conversation log entries and the
audit record written once a session reaches a terminal state.

Token

This module derives the trust token issued on successful verification. The
token is a truncated SHA-256 digest of public inputs: anyone who knows the
session id and both agent ids can recompute it. It is an identifier, not an
unforgeable credential.
*/
package protocol
