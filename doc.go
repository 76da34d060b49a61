/*
Package rpccors adds [Cross-Origin Resource Sharing (CORS)] support to the
endpoints of a [dispatch] pipeline, so that browser-based clients served
from other origins can call their operations.

A [Behavior], configured by a [Policy], plugs three interceptors into an
endpoint:

  - an [Inspector], which detects cross-origin requests (requests that
    carry a non-empty Origin header) and records a [State] for them in the
    request's property bag; for [CORS-preflight requests] (OPTIONS requests
    that carry a non-empty Origin header), it also prepares an empty reply;
  - a [Formatter] and an [Invoker] around each operation, which let
    preflight requests bypass argument deserialization and the business
    operation altogether;
  - the Inspector again, on the way out, which adds the CORS response
    headers to the reply: [Access-Control-Allow-Origin] on every
    cross-origin reply, plus [Access-Control-Allow-Methods] and
    [Access-Control-Allow-Headers] on preflight replies.

Requests that don't carry an Origin header flow through the pipeline as if
the behavior weren't there.

The same policy applies to every cross-origin request, whatever its origin.
In particular, no allow-list of origins is maintained and credentialed
requests get no special treatment;
see [Fearless CORS] for the pitfalls of such a permissive policy.
Behaviors perform no validation of their policy; use [Policy.Validate] to
catch mistakes at configuration time.

Only synchronous invokers can be wrapped: applying a Behavior to an
operation whose invoker is asynchronous fails with a
[*cfgerrors.IncompatibleInvokerError].

[Access-Control-Allow-Headers]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Allow-Headers
[Access-Control-Allow-Methods]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Allow-Methods
[Access-Control-Allow-Origin]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Allow-Origin
[CORS-preflight requests]: https://developer.mozilla.org/en-US/docs/Glossary/Preflight_request
[Cross-Origin Resource Sharing (CORS)]: https://developer.mozilla.org/en-US/docs/Web/HTTP/CORS
[Fearless CORS]: https://jub0bs.com/posts/2023-02-08-fearless-cors/
*/
package rpccors
