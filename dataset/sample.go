// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import "github.com/gorse-io/moviebox/storage/data"

var sampleMovies = []data.Movie{
	// Netflix
	{Title: "The Dark Knight", Platform: "Netflix", Genre: "Action,Crime,Drama", Year: 2008, Rating: 9.0, Director: "Christopher Nolan"},
	{Title: "Inception", Platform: "Netflix", Genre: "Action,Sci-Fi,Thriller", Year: 2010, Rating: 8.8, Director: "Christopher Nolan"},
	{Title: "The Matrix", Platform: "Netflix", Genre: "Action,Sci-Fi", Year: 1999, Rating: 8.7, Director: "Wachowski Brothers"},
	{Title: "Pulp Fiction", Platform: "Netflix", Genre: "Crime,Drama", Year: 1994, Rating: 8.9, Director: "Quentin Tarantino"},
	{Title: "The Shawshank Redemption", Platform: "Netflix", Genre: "Drama", Year: 1994, Rating: 9.3, Director: "Frank Darabont"},
	{Title: "Forrest Gump", Platform: "Netflix", Genre: "Drama,Romance", Year: 1994, Rating: 8.8, Director: "Robert Zemeckis"},
	{Title: "The Godfather", Platform: "Netflix", Genre: "Crime,Drama", Year: 1972, Rating: 9.2, Director: "Francis Ford Coppola"},
	{Title: "Fight Club", Platform: "Netflix", Genre: "Drama,Thriller", Year: 1999, Rating: 8.8, Director: "David Fincher"},
	{Title: "Interstellar", Platform: "Netflix", Genre: "Adventure,Drama,Sci-Fi", Year: 2014, Rating: 8.6, Director: "Christopher Nolan"},
	{Title: "The Departed", Platform: "Netflix", Genre: "Crime,Drama,Thriller", Year: 2006, Rating: 8.5, Director: "Martin Scorsese"},
	// Prime Video
	{Title: "The Lord of the Rings: The Fellowship", Platform: "Prime Video", Genre: "Action,Adventure,Drama", Year: 2001, Rating: 8.8, Director: "Peter Jackson"},
	{Title: "The Prestige", Platform: "Prime Video", Genre: "Drama,Mystery,Thriller", Year: 2006, Rating: 8.5, Director: "Christopher Nolan"},
	{Title: "Gladiator", Platform: "Prime Video", Genre: "Action,Adventure,Drama", Year: 2000, Rating: 8.5, Director: "Ridley Scott"},
	{Title: "The Green Mile", Platform: "Prime Video", Genre: "Crime,Drama,Fantasy", Year: 1999, Rating: 8.6, Director: "Frank Darabont"},
	{Title: "The Usual Suspects", Platform: "Prime Video", Genre: "Crime,Mystery,Thriller", Year: 1995, Rating: 8.5, Director: "Bryan Singer"},
	{Title: "Se7en", Platform: "Prime Video", Genre: "Crime,Drama,Mystery", Year: 1995, Rating: 8.6, Director: "David Fincher"},
	{Title: "The Silence of the Lambs", Platform: "Prime Video", Genre: "Crime,Drama,Thriller", Year: 1991, Rating: 8.6, Director: "Jonathan Demme"},
	{Title: "Saving Private Ryan", Platform: "Prime Video", Genre: "Drama,War", Year: 1998, Rating: 8.6, Director: "Steven Spielberg"},
	{Title: "The Lion King", Platform: "Prime Video", Genre: "Animation,Adventure,Drama", Year: 1994, Rating: 8.5, Director: "Roger Allers"},
	{Title: "Goodfellas", Platform: "Prime Video", Genre: "Biography,Crime,Drama", Year: 1990, Rating: 8.7, Director: "Martin Scorsese"},
	// Hotstar
	{Title: "3 Idiots", Platform: "Hotstar", Genre: "Comedy,Drama", Year: 2009, Rating: 8.4, Director: "Rajkumar Hirani"},
	{Title: "Dangal", Platform: "Hotstar", Genre: "Action,Biography,Drama", Year: 2016, Rating: 8.4, Director: "Nitesh Tiwari"},
	{Title: "Lagaan", Platform: "Hotstar", Genre: "Adventure,Drama,Sport", Year: 2001, Rating: 8.1, Director: "Ashutosh Gowariker"},
	{Title: "Taare Zameen Par", Platform: "Hotstar", Genre: "Drama,Family", Year: 2007, Rating: 8.4, Director: "Aamir Khan"},
	{Title: "PK", Platform: "Hotstar", Genre: "Comedy,Drama,Sci-Fi", Year: 2014, Rating: 8.1, Director: "Rajkumar Hirani"},
	{Title: "Zindagi Na Milegi Dobara", Platform: "Hotstar", Genre: "Comedy,Drama", Year: 2011, Rating: 8.2, Director: "Zoya Akhtar"},
	{Title: "Gully Boy", Platform: "Hotstar", Genre: "Drama,Music", Year: 2019, Rating: 8.0, Director: "Zoya Akhtar"},
	{Title: "Queen", Platform: "Hotstar", Genre: "Adventure,Comedy,Drama", Year: 2013, Rating: 8.2, Director: "Vikas Bahl"},
	{Title: "Andhadhun", Platform: "Hotstar", Genre: "Comedy,Crime,Thriller", Year: 2018, Rating: 8.3, Director: "Sriram Raghavan"},
	{Title: "Barfi!", Platform: "Hotstar", Genre: "Comedy,Drama,Romance", Year: 2012, Rating: 8.1, Director: "Anurag Basu"},
	// across platforms
	{Title: "The Avengers", Platform: "Disney+ Hotstar", Genre: "Action,Adventure,Sci-Fi", Year: 2012, Rating: 8.0, Director: "Joss Whedon"},
	{Title: "Avatar", Platform: "Disney+ Hotstar", Genre: "Action,Adventure,Fantasy", Year: 2009, Rating: 7.8, Director: "James Cameron"},
	{Title: "Titanic", Platform: "Prime Video", Genre: "Drama,Romance", Year: 1997, Rating: 7.8, Director: "James Cameron"},
	{Title: "Jurassic Park", Platform: "Netflix", Genre: "Action,Adventure,Sci-Fi", Year: 1993, Rating: 8.1, Director: "Steven Spielberg"},
	{Title: "The Terminator", Platform: "Prime Video", Genre: "Action,Sci-Fi,Thriller", Year: 1984, Rating: 8.0, Director: "James Cameron"},
	{Title: "Back to the Future", Platform: "Netflix", Genre: "Adventure,Comedy,Sci-Fi", Year: 1985, Rating: 8.5, Director: "Robert Zemeckis"},
	{Title: "The Sixth Sense", Platform: "Prime Video", Genre: "Drama,Mystery,Thriller", Year: 1999, Rating: 8.1, Director: "M. Night Shyamalan"},
	{Title: "The Truman Show", Platform: "Netflix", Genre: "Comedy,Drama,Sci-Fi", Year: 1998, Rating: 8.1, Director: "Peter Weir"},
	{Title: "The Social Network", Platform: "Netflix", Genre: "Biography,Drama", Year: 2010, Rating: 7.7, Director: "David Fincher"},
	{Title: "Whiplash", Platform: "Prime Video", Genre: "Drama,Music", Year: 2014, Rating: 8.5, Director: "Damien Chazelle"},
}

// SampleMovies returns a copy of the built-in catalog of 40 movies from streaming platforms.
func SampleMovies() []data.Movie {
	movies := make([]data.Movie, len(sampleMovies))
	copy(movies, sampleMovies)
	return movies
}
