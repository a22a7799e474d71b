/*
Package httpreq issues HTTP calls and returns deferred results.

Each factory (Get, Delete, Post, Put, Upload) starts exactly one call on its
own goroutine and returns a *Request at once. Callbacks are attached with
Done and Fail:

	client := httpreq.NewClient(httpreq.WithTimeout(10 * time.Second))

	client.Get(ctx, "https://api.example.com/items", url.Values{"page": {"2"}}).
	    Done(func(resp *httpreq.Response) {
	        fmt.Println(resp.StatusCode)
	    }).
	    Fail(func(err error) {
	        log.Println(err)
	    })

# Outcomes

A completed exchange goes to Done whatever its status code, so a 404 is a
Done with StatusCode 404. Fail receives a *RequestError when no response was
obtained: body encoding, request construction, or the transport failed.

A callback registered after the request settled runs immediately. Setting a
callback again replaces the earlier one. Wait blocks for the outcome instead:

	resp, err := client.Post(ctx, u, payload).Wait(ctx)

# Bodies

Get and Delete encode their query with url.Values.Encode, so keys are
sorted. Post and Put send JSON with Content-Type application/json. Upload
sends multipart/form-data built from a FormData.

# Testing

Inject a Doer to replace the network:

	client := httpreq.NewClient(httpreq.WithDoer(fake))
*/
package httpreq
