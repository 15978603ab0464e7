// Package assertplugin provides testing functions to validate a plugin's overall functionality.
//
// Note that the driver only routes a message to the plugin the way filefairy does (commands in
// the control channel first, then the plugin's own message handler) and doesn't apply the
// resulting Response. Use filefairy itself with an in-memory transport to validate patches and
// notifications across plugins.
//
// Example:
//    func TestPlugin(t *testing.T) {
//        assertplugin := assertplugin.New("C1")
//        yourPlugin := newPlugin()
//
//        assertplugin.RespondsAndPosts(t, yourPlugin, &slack.Msg{Channel: "C1", Text: "Maker.make(cake)"}, func(t *testing.T, r *filefairy.Response, err error, posts []capture.Post) bool {
//            return assert.NoError(t, err) && assert.Len(t, posts, 1) && assert.Equal(t, "`cake` is ready for you!", posts[0].Text)
//        })
//    }
package assertplugin // import "github.com/orangeandblueleague/filefairy/test/assertplugin"
