package media

// PersonalData is carried by the user fields of every variant.
type PersonalData struct {
	PersonalStatus string   `json:"personalStatus" yaml:"personalStatus"`
	PersonalTags   []string `json:"personalTags" yaml:"personalTags"`
}

type Movie struct {
	Base
	Plot              string        `json:"plot" yaml:"plot"`
	Genres            []string      `json:"genres" yaml:"genres"`
	Director          []string      `json:"director" yaml:"director"`
	Writer            []string      `json:"writer" yaml:"writer"`
	Studio            []string      `json:"studio" yaml:"studio"`
	Duration          string        `json:"duration" yaml:"duration"`
	OnlineRating      float64       `json:"onlineRating" yaml:"onlineRating"`
	Actors            []string      `json:"actors" yaml:"actors"`
	Image             string        `json:"image" yaml:"image"`
	Released          bool          `json:"released" yaml:"released"`
	StreamingServices []string      `json:"streamingServices" yaml:"streamingServices"`
	Premiere          string        `json:"premiere" yaml:"premiere"`
	UserData          WatchUserData `json:"userData" yaml:"userData"`
}

func (*Movie) MediaType() MediaType { return TypeMovie }
func (*Movie) Tags() []string       { return []string{Tag, "tv", "movie"} }

type Series struct {
	Base
	Plot              string        `json:"plot" yaml:"plot"`
	Genres            []string      `json:"genres" yaml:"genres"`
	Writer            []string      `json:"writer" yaml:"writer"`
	Studio            []string      `json:"studio" yaml:"studio"`
	Episodes          int           `json:"episodes" yaml:"episodes"`
	Duration          string        `json:"duration" yaml:"duration"`
	OnlineRating      float64       `json:"onlineRating" yaml:"onlineRating"`
	Actors            []string      `json:"actors" yaml:"actors"`
	Image             string        `json:"image" yaml:"image"`
	Released          bool          `json:"released" yaml:"released"`
	StreamingServices []string      `json:"streamingServices" yaml:"streamingServices"`
	Airing            bool          `json:"airing" yaml:"airing"`
	AiredFrom         string        `json:"airedFrom" yaml:"airedFrom"`
	AiredTo           string        `json:"airedTo" yaml:"airedTo"`
	UserData          WatchUserData `json:"userData" yaml:"userData"`
}

func (*Series) MediaType() MediaType { return TypeSeries }
func (*Series) Tags() []string       { return []string{Tag, "tv", "series"} }

// WatchUserData holds the user fields of movies and series.
type WatchUserData struct {
	Watched        bool    `json:"watched" yaml:"watched"`
	LastWatched    string  `json:"lastWatched" yaml:"lastWatched"`
	PersonalRating float64 `json:"personalRating" yaml:"personalRating"`
	PersonalData
}

type Game struct {
	Base
	Genres       []string     `json:"genres" yaml:"genres"`
	Developers   []string     `json:"developers" yaml:"developers"`
	Publishers   []string     `json:"publishers" yaml:"publishers"`
	OnlineRating float64      `json:"onlineRating" yaml:"onlineRating"`
	Image        string       `json:"image" yaml:"image"`
	Released     bool         `json:"released" yaml:"released"`
	ReleaseDate  string       `json:"releaseDate" yaml:"releaseDate"`
	Platforms    []string     `json:"platforms" yaml:"platforms"`
	UserData     PlayUserData `json:"userData" yaml:"userData"`
}

func (*Game) MediaType() MediaType { return TypeGame }
func (*Game) Tags() []string       { return []string{Tag, "game"} }

// PlayUserData holds the user fields of games and board games.
type PlayUserData struct {
	Played         bool    `json:"played" yaml:"played"`
	PersonalRating float64 `json:"personalRating" yaml:"personalRating"`
	PersonalData
}

type Book struct {
	Base
	Author       string       `json:"author" yaml:"author"`
	Plot         string       `json:"plot" yaml:"plot"`
	Pages        int          `json:"pages" yaml:"pages"`
	Image        string       `json:"image" yaml:"image"`
	OnlineRating float64      `json:"onlineRating" yaml:"onlineRating"`
	ISBN         string       `json:"isbn" yaml:"isbn"`
	ISBN13       string       `json:"isbn13" yaml:"isbn13"`
	Released     bool         `json:"released" yaml:"released"`
	Genres       []string     `json:"genres" yaml:"genres"`
	UserData     ReadUserData `json:"userData" yaml:"userData"`
}

func (*Book) MediaType() MediaType { return TypeBook }
func (*Book) Tags() []string       { return []string{Tag, "book"} }

type ComicManga struct {
	Base
	AlternateTitles []string     `json:"alternateTitles" yaml:"alternateTitles"`
	Plot            string       `json:"plot" yaml:"plot"`
	Genres          []string     `json:"genres" yaml:"genres"`
	Authors         []string     `json:"authors" yaml:"authors"`
	Chapters        int          `json:"chapters" yaml:"chapters"`
	Volumes         int          `json:"volumes" yaml:"volumes"`
	OnlineRating    float64      `json:"onlineRating" yaml:"onlineRating"`
	Image           string       `json:"image" yaml:"image"`
	Released        bool         `json:"released" yaml:"released"`
	Status          string       `json:"status" yaml:"status"`
	Publishers      []string     `json:"publishers" yaml:"publishers"`
	PublishedFrom   string       `json:"publishedFrom" yaml:"publishedFrom"`
	PublishedTo     string       `json:"publishedTo" yaml:"publishedTo"`
	UserData        ReadUserData `json:"userData" yaml:"userData"`
}

func (*ComicManga) MediaType() MediaType { return TypeComicManga }
func (*ComicManga) Tags() []string       { return []string{Tag, "comic"} }

// ReadUserData holds the user fields of books and comics.
type ReadUserData struct {
	Read           bool    `json:"read" yaml:"read"`
	LastRead       string  `json:"lastRead" yaml:"lastRead"`
	PersonalRating float64 `json:"personalRating" yaml:"personalRating"`
	PersonalData
}

type MusicRelease struct {
	Base
	Genres      []string       `json:"genres" yaml:"genres"`
	Artists     []string       `json:"artists" yaml:"artists"`
	Language    string         `json:"language" yaml:"language"`
	Image       string         `json:"image" yaml:"image"`
	Rating      float64        `json:"rating" yaml:"rating"`
	ReleaseDate string         `json:"releaseDate" yaml:"releaseDate"`
	TrackCount  int            `json:"trackCount" yaml:"trackCount"`
	UserData    RatingUserData `json:"userData" yaml:"userData"`
}

func (*MusicRelease) MediaType() MediaType { return TypeMusicRelease }
func (*MusicRelease) Tags() []string       { return []string{Tag, "music"} }

type RatingUserData struct {
	PersonalRating float64 `json:"personalRating" yaml:"personalRating"`
	PersonalData
}

type BoardGame struct {
	Base
	Genres           []string     `json:"genres" yaml:"genres"`
	OnlineRating     float64      `json:"onlineRating" yaml:"onlineRating"`
	ComplexityRating float64      `json:"complexityRating" yaml:"complexityRating"`
	MinPlayers       int          `json:"minPlayers" yaml:"minPlayers"`
	MaxPlayers       int          `json:"maxPlayers" yaml:"maxPlayers"`
	Playtime         string       `json:"playtime" yaml:"playtime"`
	Publishers       []string     `json:"publishers" yaml:"publishers"`
	Image            string       `json:"image" yaml:"image"`
	Released         bool         `json:"released" yaml:"released"`
	UserData         PlayUserData `json:"userData" yaml:"userData"`
}

func (*BoardGame) MediaType() MediaType { return TypeBoardGame }
func (*BoardGame) Tags() []string       { return []string{Tag, "boardgame"} }

type Wiki struct {
	Base
	WikiURL     string       `json:"wikiUrl" yaml:"wikiUrl"`
	LastUpdated string       `json:"lastUpdated" yaml:"lastUpdated"`
	Length      int          `json:"length" yaml:"length"`
	Article     string       `json:"article" yaml:"article"`
	UserData    PersonalData `json:"userData" yaml:"userData"`
}

func (*Wiki) MediaType() MediaType { return TypeWiki }
func (*Wiki) Tags() []string       { return []string{Tag, "wiki"} }
